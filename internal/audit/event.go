package audit

import (
	"encoding/json"
	"time"
)

// TimestampFormat is the time format used for audit event timestamps.
const TimestampFormat = time.RFC3339Nano

// eventJSON uses pointers for optional fields so they are omitted when empty.
type eventJSON struct {
	Timestamp    string            `json:"timestamp"`
	RunID        RunID             `json:"runId,omitempty"`
	EventType    EventType         `json:"eventType"`
	Status       OperationStatus   `json:"status"`
	InputPath    *string           `json:"inputPath,omitempty"`
	OutputPath   *string           `json:"outputPath,omitempty"`
	ReasonCode   *ReasonCode       `json:"reasonCode,omitempty"`
	ErrorDetails *ErrorDetails     `json:"errorDetails,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler for AuditEvent.
func (e AuditEvent) MarshalJSON() ([]byte, error) {
	ej := eventJSON{
		Timestamp:    e.Timestamp.UTC().Format(TimestampFormat),
		RunID:        e.RunID,
		EventType:    e.EventType,
		Status:       e.Status,
		ErrorDetails: e.ErrorDetails,
		Metadata:     e.Metadata,
	}
	if e.InputPath != "" {
		ej.InputPath = &e.InputPath
	}
	if e.OutputPath != "" {
		ej.OutputPath = &e.OutputPath
	}
	if e.ReasonCode != "" {
		rc := e.ReasonCode
		ej.ReasonCode = &rc
	}
	return json.Marshal(ej)
}

// UnmarshalJSON implements json.Unmarshaler for AuditEvent.
func (e *AuditEvent) UnmarshalJSON(data []byte) error {
	var ej eventJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return err
	}

	t, err := time.Parse(TimestampFormat, ej.Timestamp)
	if err != nil {
		return err
	}

	*e = AuditEvent{
		Timestamp:    t,
		RunID:        ej.RunID,
		EventType:    ej.EventType,
		Status:       ej.Status,
		ErrorDetails: ej.ErrorDetails,
		Metadata:     ej.Metadata,
	}
	if ej.InputPath != nil {
		e.InputPath = *ej.InputPath
	}
	if ej.OutputPath != nil {
		e.OutputPath = *ej.OutputPath
	}
	if ej.ReasonCode != nil {
		e.ReasonCode = *ej.ReasonCode
	}
	return nil
}

// UnmarshalJSONLine parses one JSON Lines record.
func UnmarshalJSONLine(data []byte) (*AuditEvent, error) {
	var e AuditEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
