package services

import "errors"

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidScore     = errors.New("invalid score")

	// Ошибки состояния турнира
	ErrPreconditionNotMet  = errors.New("precondition not met")
	ErrRankingIncomplete   = errors.New("tournament ranking is not final yet")
	ErrTournamentCancelled = errors.New("tournament is cancelled")

	// Ошибки конфликтов
	ErrGroupStageExists = errors.New("group stage is already scheduled")
	ErrConflict         = errors.New("conflicting match data")

	// Ошибки, специфичные для сущностей (могут дублировать ErrNotFound, но дают больше контекста)
	ErrMatchNotFound      = errors.New("match not found")
	ErrTournamentNotFound = errors.New("tournament not found")
)
