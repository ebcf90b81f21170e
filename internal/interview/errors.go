package interview

import (
	"fmt"
	"strings"
)

// FieldError описывает одно нарушение валидации входных данных.
type FieldError struct {
	Field   string
	Message string
	Type    string
}

// ValidationError возвращается до обращения к LLM.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid interview turn: " + strings.Join(parts, "; ")
}

// GenerationError любой сбой после валидации: сборка промпта, вызов провайдера, разбор ответа.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Error generating follow-up: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
