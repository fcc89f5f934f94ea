package config

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// InitSupabase connects to Supabase when both URL and service key are configured.
// It returns nil without error when persistence is disabled.
func InitSupabase(cfg *Config) (*supa.Client, error) {
	if !cfg.RecorderEnabled() {
		if Log != nil {
			Log.Info("SUPABASE_URL or SUPABASE_SERVICE_KEY not set, tracking jobs stay in memory")
		}
		return nil, nil
	}

	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("error initializing Supabase client: %w", err)
	}

	if Log != nil {
		Log.Info("Supabase client initialized successfully.")
	}
	return client, nil
}
