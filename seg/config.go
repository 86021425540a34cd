package seg

// Config holds the tunable parameters from spec section 6.2. A zero Config
// is not valid; use DefaultConfig and override individual fields.
type Config struct {
	// MinPatternScore discards mined pattern candidates scoring below this.
	MinPatternScore uint64
	// MinPatternLen is the source-byte lower bound for candidate patterns.
	MinPatternLen int
	// MaxPatternLen is the source-byte upper bound for candidate patterns.
	MaxPatternLen int
	// SamplingFactor admits one submitted word in N into the superstring
	// sampler that feeds pattern mining.
	SamplingFactor int
	// MaxDictPatterns caps the final dictionary size.
	MaxDictPatterns int
	// DictReducerSoftLimit caps the aggregate accepted pattern score during
	// dictionary reduction (spec section 4.4 / SPEC_FULL.md resolution).
	DictReducerSoftLimit uint64
	// Workers must be positive; it is validated but not otherwise used:
	// mining, cover and encoding all run on a single goroutine.
	Workers int
}

// DefaultConfig returns the configuration spec section 6.2 names as
// defaults.
func DefaultConfig() Config {
	return Config{
		MinPatternScore:      1024,
		MinPatternLen:        5,
		MaxPatternLen:        128,
		SamplingFactor:       4,
		MaxDictPatterns:      65536,
		DictReducerSoftLimit: 1_000_000,
		Workers:              1,
	}
}

// validate reports ErrInvalidConfig for a Config that cannot produce a
// valid compressor, mirroring bzip2.NewWriterLevel's level check: rejected
// at construction time, before any I/O starts.
func (c Config) validate() error {
	switch {
	case c.MinPatternLen <= 0:
		return ErrInvalidConfig
	case c.MaxPatternLen < c.MinPatternLen:
		return ErrInvalidConfig
	case c.SamplingFactor <= 0:
		return ErrInvalidConfig
	case c.MaxDictPatterns <= 0:
		return ErrInvalidConfig
	case c.Workers <= 0:
		return ErrInvalidConfig
	}
	return nil
}
