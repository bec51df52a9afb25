package mapper

import (
	"encoding/json"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/model"
	"ncip-portal/pkg/lifecycle"

	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.UploadedDocument) *entity.UploadedDocument {
	if d == nil {
		return nil
	}
	return &entity.UploadedDocument{
		Id:               d.Id,
		ApplicationId:    d.ApplicationId,
		RequirementId:    d.RequirementId,
		OriginalFilename: d.OriginalFilename,
		StoragePath:      d.StoragePath,
		FileSize:         d.FileSize,
		MimeType:         d.MimeType,
		Checksum:         d.Checksum,
		UploadStatus:     entity.UploadStatus(d.UploadStatus),
		ReviewStatus:     entity.ReviewStatus(d.ReviewStatus),
		UploadedBy:       d.UploadedBy,
		ReviewedBy:       d.ReviewedBy,
		ReviewNotes:      d.ReviewNotes,
		UploadedAt:       d.UploadedAt,
		ReviewedAt:       d.ReviewedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.UploadedDocument) *model.UploadedDocument {
	return &model.UploadedDocument{
		Id:               d.Id,
		ApplicationId:    d.ApplicationId,
		RequirementId:    d.RequirementId,
		OriginalFilename: d.OriginalFilename,
		StoragePath:      d.StoragePath,
		FileSize:         d.FileSize,
		MimeType:         d.MimeType,
		Checksum:         d.Checksum,
		UploadStatus:     string(d.UploadStatus),
		ReviewStatus:     string(d.ReviewStatus),
		UploadedBy:       d.UploadedBy,
		ReviewedBy:       d.ReviewedBy,
		ReviewNotes:      d.ReviewNotes,
		UploadedAt:       d.UploadedAt,
		ReviewedAt:       d.ReviewedAt,
	}
}

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.NotificationQueue) *entity.NotificationQueueEntry {
	return &entity.NotificationQueueEntry{
		Id:            n.ID,
		UserId:        n.UserID,
		ApplicationId: n.ApplicationID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
		Priority:      lifecycle.Priority(n.Priority),
		Metadata:      normalizeMetadata(n.Metadata),
		IsRead:        n.IsRead,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}

func (m *NotificationMapper) ToModel(n *entity.NotificationQueueEntry) *model.NotificationQueue {
	return &model.NotificationQueue{
		ID:            n.Id,
		UserID:        n.UserId,
		ApplicationID: n.ApplicationId,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
		Priority:      string(n.Priority),
		Metadata:      datatypes.JSONMap(n.Metadata),
		IsRead:        n.IsRead,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}

func (m *NotificationMapper) DeliveryToModel(d *entity.NotificationDelivery) *model.NotificationDelivery {
	return &model.NotificationDelivery{
		ID:             d.Id,
		NotificationID: d.NotificationId,
		Channel:        d.Channel,
		Status:         string(d.Status),
		Error:          d.Error,
		AttemptedAt:    d.AttemptedAt,
	}
}

func (m *NotificationMapper) DeliveryToEntity(d *model.NotificationDelivery) *entity.NotificationDelivery {
	return &entity.NotificationDelivery{
		Id:             d.ID,
		NotificationId: d.NotificationID,
		Channel:        d.Channel,
		Status:         entity.DeliveryStatus(d.Status),
		Error:          d.Error,
		AttemptedAt:    d.AttemptedAt,
	}
}

// normalizeMetadata turns the json.Number values JSONMap decodes into int64,
// or float64 when the number has a fraction, so metadata reads back with the
// types it was written with.
func normalizeMetadata(m datatypes.JSONMap) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]interface{}:
		return normalizeMetadata(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
