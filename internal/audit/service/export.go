package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"time"

	auditdomain "github.com/railzwaylabs/supportdesk/internal/audit/domain"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
)

func (s *Service) Export(ctx context.Context, req auditdomain.ExportRequest) (*auditdomain.ExportResult, error) {
	if !req.To.After(req.From) {
		return nil, apperror.Validation("end_date", "must be after start_date")
	}

	targetTypes := make([]string, 0, len(req.Kinds))
	for _, kind := range req.Kinds {
		targetTypes = append(targetTypes, string(kind))
	}

	logs, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		From:        req.From,
		To:          req.To,
		TargetTypes: targetTypes,
		Actions:     req.Actions,
	})
	if err != nil {
		return nil, err
	}

	var data []byte
	switch req.Format {
	case auditdomain.ExportFormatCSV:
		data, err = formatCSV(logs)
	case auditdomain.ExportFormatJSON:
		data, err = formatJSON(logs)
	default:
		return nil, apperror.Validation("format", "must be csv or json")
	}
	if err != nil {
		return nil, err
	}

	return &auditdomain.ExportResult{
		Data:     data,
		Checksum: calculateChecksum(data),
		Format:   req.Format,
		Count:    len(logs),
	}, nil
}

func formatCSV(logs []auditdomain.AuditLog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"timestamp", "id", "actor_role", "action", "target_type", "target_id", "metadata"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, log := range logs {
		metadataJSON, err := json.Marshal(log.Metadata)
		if err != nil {
			return nil, err
		}
		row := []string{
			log.CreatedAt.UTC().Format(time.RFC3339),
			log.ID.String(),
			log.ActorRole,
			log.Action,
			log.TargetType,
			formatStringPtr(log.TargetID),
			string(metadataJSON),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatJSON(logs []auditdomain.AuditLog) ([]byte, error) {
	type exportRecord struct {
		Timestamp  string         `json:"timestamp"`
		ID         string         `json:"id"`
		ActorRole  string         `json:"actor_role"`
		Action     string         `json:"action"`
		TargetType string         `json:"target_type"`
		TargetID   string         `json:"target_id,omitempty"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}

	records := make([]exportRecord, 0, len(logs))
	for _, log := range logs {
		records = append(records, exportRecord{
			Timestamp:  log.CreatedAt.UTC().Format(time.RFC3339),
			ID:         log.ID.String(),
			ActorRole:  log.ActorRole,
			Action:     log.Action,
			TargetType: log.TargetType,
			TargetID:   formatStringPtr(log.TargetID),
			Metadata:   log.Metadata,
		})
	}
	return json.MarshalIndent(records, "", "  ")
}

func formatStringPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
