package email

import (
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/canvascore/qr_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendQRCode 发送二维码图片附件邮件。
// 投递失败不影响已生成的二维码，调用方自行决定如何上报。
func (s *Service) SendQRCode(to string, pngData []byte) error {
	subject := "Your QR Code"
	body := `<html><p>Dear sir/madam, here is your QR code in the attachment, against your text. Thanks!</p></html>`

	return s.sendWithAttachment(to, subject, body, "qrcode.png", "image/png", pngData)
}

// sendWithAttachment 发送带附件的 HTML 邮件（multipart/mixed）
func (s *Service) sendWithAttachment(to, subject, htmlBody, filename, contentType string, attachment []byte) error {
	var msg strings.Builder
	mw := multipart.NewWriter(&msg)

	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = fmt.Sprintf("multipart/mixed; boundary=%q", mw.Boundary())

	var head strings.Builder
	for k, v := range headers {
		head.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	head.WriteString("\r\n")

	// HTML 正文部分
	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", "text/html; charset=UTF-8")
	part, err := mw.CreatePart(bodyHeader)
	if err != nil {
		return fmt.Errorf("failed to create body part: %w", err)
	}
	if _, err := part.Write([]byte(htmlBody)); err != nil {
		return fmt.Errorf("failed to write body part: %w", err)
	}

	// 附件部分（base64，按 RFC 限制折行）
	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", contentType)
	attHeader.Set("Content-Transfer-Encoding", "base64")
	attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	part, err = mw.CreatePart(attHeader)
	if err != nil {
		return fmt.Errorf("failed to create attachment part: %w", err)
	}
	if _, err := part.Write(wrapBase64(attachment)); err != nil {
		return fmt.Errorf("failed to write attachment part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize message: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(head.String()+msg.String()))
}

// wrapBase64 base64 编码并按 76 字符折行
func wrapBase64(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)

	var out strings.Builder
	for len(encoded) > 76 {
		out.WriteString(encoded[:76])
		out.WriteString("\r\n")
		encoded = encoded[76:]
	}
	out.WriteString(encoded)

	return []byte(out.String())
}
