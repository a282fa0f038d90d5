package core

import (
	"encoding/json"
	"fmt"

	"jobcore/pkg/domain"
)

// SchemaVersion tags every serialized record. The on-disk format carries an
// explicit version so a future layout change can be detected instead of
// silently misread.
const SchemaVersion = 1

type recordEnvelope struct {
	SchemaVersion int         `json:"schema_version"`
	Job           *domain.Job `json:"job"`
}

// EncodeRecord serialises a Job into the versioned record envelope.
func EncodeRecord(job *domain.Job) ([]byte, error) {
	b, err := json.MarshalIndent(recordEnvelope{SchemaVersion: SchemaVersion, Job: job}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

// DecodeRecord deserialises a record envelope. Empty or undecodable data,
// an unknown schema version, and a missing job body all surface ErrCorrupt.
func DecodeRecord(data []byte) (*domain.Job, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty record", ErrCorrupt)
	}
	var env recordEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", ErrCorrupt, env.SchemaVersion)
	}
	if env.Job == nil {
		return nil, fmt.Errorf("%w: record has no job body", ErrCorrupt)
	}
	if env.Job.Projects == nil {
		env.Job.Projects = domain.NewProjectMap()
	}
	return env.Job, nil
}
