package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Development builds log at debug level to
// the console; everything else gets production JSON at info.
func New(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
