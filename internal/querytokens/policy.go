package querytokens

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/analyzer"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/config"
)

// PolicyFromConfig starts from the analyzer's default policy and applies the
// fields set in cfg.
func PolicyFromConfig(cfg config.AnalyzerConfig) analyzer.Policy {
	p := analyzer.DefaultPolicy()
	if cfg.Language != "" {
		p.Language = cfg.Language
	}
	if cfg.Lowercase != nil {
		p.Lowercase = *cfg.Lowercase
	}
	if cfg.StopWords != nil {
		p.StopWords = *cfg.StopWords
	}
	if cfg.Stemming != nil {
		p.Stemming = *cfg.Stemming
	}
	if cfg.MinTokenLength != nil {
		p.MinTokenLength = *cfg.MinTokenLength
	}
	return p
}

// Namespace identifies a policy in cache keys.
func Namespace(p analyzer.Policy) string {
	return fmt.Sprintf("%s|lc=%t|stop=%t|stem=%t|min=%d",
		p.Language, p.Lowercase, p.StopWords, p.Stemming, p.MinTokenLength)
}
