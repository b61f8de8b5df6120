package lazytext

import "testing"

func TestOptions(t *testing.T) {
	cfg := defaultConfig()
	for _, o := range []Option{WithChunkSize(64), WithInlineThreshold(0), WithInitialCapacity(4)} {
		o(&cfg)
	}
	if cfg.chunkSize != 64 || cfg.inlineThreshold != 0 || cfg.initialCapacity != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestOptionsIgnoreInvalid(t *testing.T) {
	cfg := defaultConfig()
	for _, o := range []Option{WithChunkSize(0), WithChunkSize(-5), WithInlineThreshold(-1), WithInitialCapacity(0)} {
		o(&cfg)
	}
	if cfg != defaultConfig() {
		t.Errorf("invalid options changed config: %+v", cfg)
	}
}
