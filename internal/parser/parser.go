package parser

import (
	"net/url"

	"go.uber.org/zap"
)

// Parser resolves relative links against the site base URL.
type Parser struct {
	base   *url.URL
	logger *zap.Logger
}

// New builds a Parser. A nil logger disables debug output.
func New(base *url.URL, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{base: base, logger: logger.Named("parser")}
}
