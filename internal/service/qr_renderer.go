package service

import (
	"github.com/skip2/go-qrcode"
)

// QRRenderer 将证书载荷渲染为可扫描图片
type QRRenderer interface {
	RenderPNG(payload string) ([]byte, error)
}

// PNGQRRenderer 基于 go-qrcode 的 PNG 渲染
type PNGQRRenderer struct {
	Size int
}

func NewPNGQRRenderer(size int) *PNGQRRenderer {
	if size <= 0 {
		size = 256
	}
	return &PNGQRRenderer{Size: size}
}

func (r *PNGQRRenderer) RenderPNG(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, r.Size)
}
