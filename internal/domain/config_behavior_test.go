package domain_test

import (
	"testing"

	"github.com/doeshing/calc-go/internal/domain"
)

// TestConfig_Validate tests configuration consistency checks
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    domain.Config
		wantError bool
	}{
		{
			name: "accepts a complete configuration",
			config: domain.Config{
				LogLevel: "INFO",
				History:  domain.HistorySettings{Backend: domain.BackendSQLite, DisplayLimit: 20},
			},
			wantError: false,
		},
		{
			name:      "accepts zero values",
			config:    domain.Config{},
			wantError: false,
		},
		{
			name: "accepts lowercase log level",
			config: domain.Config{
				LogLevel: "debug",
			},
			wantError: false,
		},
		{
			name: "rejects unknown log level",
			config: domain.Config{
				LogLevel: "TRACE",
			},
			wantError: true,
		},
		{
			name: "rejects unknown backend",
			config: domain.Config{
				History: domain.HistorySettings{Backend: "postgres"},
			},
			wantError: true,
		},
		{
			name: "rejects negative display limit",
			config: domain.Config{
				History: domain.HistorySettings{DisplayLimit: -1},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Fatal("Validate() accepted an invalid configuration")
			}
			if !tt.wantError && err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestHistoryFilterMatches(t *testing.T) {
	rec := domain.HistoryRecord{Operation: "add"}

	if !(domain.HistoryFilter{}).Matches(rec) {
		t.Fatal("empty filter must match everything")
	}
	if !(domain.HistoryFilter{Operation: "ADD"}).Matches(rec) {
		t.Fatal("operation filter must be case-insensitive")
	}
	if (domain.HistoryFilter{Operation: "divide"}).Matches(rec) {
		t.Fatal("operation filter matched a different operation")
	}
}
