package core

import (
	"errors"
	"strings"
	"testing"

	"jobcore/pkg/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	job, err := domain.NewJob("105000", `C:\jobs\105000`)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.AddProject("105000-100-001-002", "weld per dwg", "brandon", "07/04/2026", ""); err != nil {
		t.Fatalf("add project: %v", err)
	}

	data, err := EncodeRecord(job)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(data), `"schema_version": 1`) {
		t.Fatalf("missing schema version in %s", data)
	}

	decoded, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.JobID != "105000" || decoded.Projects.Len() != 1 {
		t.Fatalf("unexpected decode result %+v", decoded)
	}
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"truncated":     `{"schema_version":1,"job":{`,
		"wrong version": `{"schema_version":9,"job":{"job_id":"105000"}}`,
		"missing job":   `{"schema_version":1}`,
	}
	for name, payload := range cases {
		if _, err := DecodeRecord([]byte(payload)); !errors.Is(err, ErrCorrupt) {
			t.Errorf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}
}

func TestDecodeBackfillsNilProjectMap(t *testing.T) {
	decoded, err := DecodeRecord([]byte(`{"schema_version":1,"job":{"job_id":"105000"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Projects == nil || decoded.Projects.Len() != 0 {
		t.Fatalf("expected empty project map, got %+v", decoded.Projects)
	}
}
