package seg

import (
	"github.com/dwerner/segcodec/internal/patterndict"
	"github.com/dwerner/segcodec/internal/patternminer"
	"github.com/dwerner/segcodec/internal/rawwords"
	"github.com/dwerner/segcodec/internal/superstring"
)

// buildDictionary runs spec sections 4.2-4.4 over the raw-words spill file:
// sample every cfg.SamplingFactor-th submitted word into superstring
// buffers, mine each sealed superstring for scored pattern candidates, and
// reduce the merged candidates to the final dictionary.
func buildDictionary(rawWordsPath string, cfg Config) (*patterndict.Dictionary, error) {
	sb := superstring.NewBuilder(0)
	db := patterndict.NewBuilder()
	mineCfg := patternminer.Config{
		MinPatternLen:   cfg.MinPatternLen,
		MaxPatternLen:   cfg.MaxPatternLen,
		MinPatternScore: cfg.MinPatternScore,
	}

	var idx uint64
	err := rawwords.ForEach(rawWordsPath, func(word []byte, _ bool) error {
		defer func() { idx++ }()
		if idx%uint64(cfg.SamplingFactor) != 0 {
			return nil
		}
		if sealed, ok := sb.Add(word); ok {
			db.Add(patternminer.Mine(sealed, mineCfg))
		}
		return nil
	})
	if err != nil {
		return nil, translateRawwordsErr(err)
	}
	if rest := sb.Final(); rest != nil {
		db.Add(patternminer.Mine(rest, mineCfg))
	}

	return patterndict.Build(db, cfg.MaxDictPatterns, cfg.DictReducerSoftLimit), nil
}

func translateRawwordsErr(err error) error {
	if err == rawwords.ErrTruncated {
		return ErrFormat
	}
	if _, ok := err.(rawwords.Error); ok {
		return ErrIO
	}
	return err
}
