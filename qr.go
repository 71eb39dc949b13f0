package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// qrHandler returns a PNG QR code pointing at the board's home page.
func (app *App) qrHandler(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	url := scheme + "://" + c.Request.Host + RouteHome

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		logError("QR generation failed for %s: %v", url, err)
		c.String(http.StatusInternalServerError, "qr generation failed")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
