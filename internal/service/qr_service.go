package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/model/dto"
	"github.com/canvascore/qr_go_server/internal/pkg/qrcode"
	"github.com/canvascore/qr_go_server/internal/repository"
	"github.com/canvascore/qr_go_server/internal/store"
)

var (
	ErrQRNotFound = errors.New("二维码不存在")
	ErrNotOwner   = errors.New("无权访问该二维码")
	ErrEncoding   = errors.New("二维码生成失败")
)

// Encoder 二维码编码器
type Encoder interface {
	Encode(text, hexColor string) (dataURL string, png []byte, err error)
}

// Mailer 邮件投递
type Mailer interface {
	SendQRCode(to string, png []byte) error
}

// ImageUploader 图片对象存储（可选）
type ImageUploader interface {
	UploadQRImage(qrID string, data []byte) (string, error)
}

// QRService 二维码签发流程：配额预占 → 编码 → 落库 → 可选邮件通知
type QRService struct {
	qrRepo       *repository.QRRepository
	quotaService *QuotaService
	encoder      Encoder
	mailer       Mailer
	uploader     ImageUploader // nil 表示未启用 OSS 镜像
}

func NewQRService(
	qrRepo *repository.QRRepository,
	quotaService *QuotaService,
	encoder Encoder,
	mailer Mailer,
	uploader ImageUploader,
) *QRService {
	return &QRService{
		qrRepo:       qrRepo,
		quotaService: quotaService,
		encoder:      encoder,
		mailer:       mailer,
		uploader:     uploader,
	}
}

// Generate 生成二维码。
// 采用悲观预占：先占配额再编码，编码失败时退还预占的配额单位；
// 记录落库后邮件投递失败只上报、不回滚。
func (s *QRService) Generate(ctx context.Context, user *model.User, req *dto.GenerateQRRequest) (*dto.GenerateQRResponse, error) {
	usage, err := s.quotaService.CheckAndReserve(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	color := req.QRColor
	if color == "" {
		color = qrcode.DefaultColor
	}

	dataURL, png, err := s.encoder.Encode(req.QRText, color)
	if err != nil {
		// 补偿：预占的配额单位退还
		if refundErr := s.quotaService.Refund(ctx, user.ID); refundErr != nil {
			log.Printf("failed to refund quota for user %s: %v", user.ID, refundErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	qr := &model.QRCode{
		ID:          newID("qr"),
		UserID:      user.ID,
		Text:        req.QRText,
		Color:       color,
		QRCodeData:  dataURL,
		GeneratedAt: time.Now(),
		Downloads:   1,
	}

	if s.uploader != nil {
		url, err := s.uploader.UploadQRImage(qr.ID, png)
		if err != nil {
			// 镜像失败不阻塞生成，data URL 仍然可用
			log.Printf("failed to mirror qr image %s: %v", qr.ID, err)
		} else {
			qr.ImageURL = url
		}
	}

	if err := s.qrRepo.Create(ctx, qr); err != nil {
		return nil, err
	}

	resp := &dto.GenerateQRResponse{
		QRCode:   dataURL,
		QRID:     qr.ID,
		ImageURL: qr.ImageURL,
		Usage:    usage,
		Subscription: &dto.SubscriptionHint{
			Tier:            user.SubscriptionTier,
			RequiresUpgrade: usage.Remaining <= 0,
		},
	}

	// 记录已落库，邮件失败不影响生成结果
	if req.QREmail != "" {
		if err := s.mailer.SendQRCode(req.QREmail, png); err != nil {
			log.Printf("failed to send qr email to %s: %v", req.QREmail, err)
			resp.EmailError = "邮件发送失败"
		} else {
			resp.EmailSent = true
		}
	}

	return resp, nil
}

// Download 下载二维码：严格校验归属后递增下载计数
func (s *QRService) Download(ctx context.Context, qrID, callerID string) (*dto.DownloadQRResponse, error) {
	qr, err := s.qrRepo.GetByID(ctx, qrID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQRNotFound
		}
		return nil, err
	}

	if qr.UserID != callerID {
		return nil, ErrNotOwner
	}

	downloads := qr.Downloads + 1
	err = s.qrRepo.UpdateFields(ctx, qrID, map[string]interface{}{
		"downloads":          downloads,
		"last_downloaded_at": time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}

	return &dto.DownloadQRResponse{
		QRCode:    qr.QRCodeData,
		Downloads: downloads,
	}, nil
}

// Remaining 当前用户配额快照
func (s *QRService) Remaining(ctx context.Context, userID string) (*dto.UsageSnapshot, error) {
	return s.quotaService.UsageSnapshot(ctx, userID)
}
