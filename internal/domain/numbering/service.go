// internal/domain/numbering/service.go
//
// Document numbers follow PREFIX-YEAR-NNNN, monotonically increasing per
// document type per year. The primary path is an atomic Redis counter per
// (prefix, year), seeded from the greatest number already persisted; without
// Redis the service falls back to max-scan plus increment, where a concurrent
// creation can collide and surfaces as a DuplicateNumberError at insert time.
package numbering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Scanner finds the lexicographically greatest existing document number
// starting with a prefix ("" when none exists)
type Scanner interface {
	MaxNumber(ctx context.Context, numberPrefix string) (string, error)
}

// ScanFunc adapts a function to the Scanner interface
type ScanFunc func(ctx context.Context, numberPrefix string) (string, error)

func (f ScanFunc) MaxNumber(ctx context.Context, numberPrefix string) (string, error) {
	return f(ctx, numberPrefix)
}

// Service generates human-readable document numbers
type Service struct {
	redis  *redis.Client
	logger *logrus.Logger

	mu     sync.Mutex
	seeded map[string]bool
}

// NewService creates a new numbering service. redisClient may be nil, in
// which case every call takes the max-scan fallback.
func NewService(redisClient *redis.Client, logger *logrus.Logger) *Service {
	return &Service{
		redis:  redisClient,
		logger: logger,
		seeded: make(map[string]bool),
	}
}

// Generate produces the next number for a prefix, e.g. RCP-2026-0001
func (s *Service) Generate(ctx context.Context, prefix string, scanner Scanner) (string, error) {
	year := time.Now().UTC().Year()
	numberPrefix := fmt.Sprintf("%s-%d-", prefix, year)

	if s.redis != nil {
		number, err := s.generateFromCounter(ctx, prefix, year, numberPrefix, scanner)
		if err == nil {
			return number, nil
		}
		s.logger.WithError(err).Warn("Numbering counter unavailable, falling back to max-scan")
	}

	max, err := scanner.MaxNumber(ctx, numberPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to scan existing document numbers: %w", err)
	}
	return fmt.Sprintf("%s%04d", numberPrefix, parseSequence(max)+1), nil
}

// generateFromCounter increments the atomic per-(prefix, year) counter,
// seeding it once from persisted numbers so restarts never go backwards
func (s *Service) generateFromCounter(ctx context.Context, prefix string, year int, numberPrefix string, scanner Scanner) (string, error) {
	key := fmt.Sprintf("numbering:%s:%d", prefix, year)

	s.mu.Lock()
	needSeed := !s.seeded[key]
	s.mu.Unlock()

	if needSeed {
		max, err := scanner.MaxNumber(ctx, numberPrefix)
		if err != nil {
			return "", err
		}
		// SETNX: a concurrent seeder wins harmlessly
		if err := s.redis.SetNX(ctx, key, parseSequence(max), 0).Err(); err != nil {
			return "", err
		}
		s.mu.Lock()
		s.seeded[key] = true
		s.mu.Unlock()
	}

	seq, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", numberPrefix, seq), nil
}

// parseSequence extracts the trailing numeric suffix of a document number,
// returning 0 for "" or anything unparseable
func parseSequence(number string) int64 {
	if number == "" {
		return 0
	}
	parts := strings.Split(number, "-")
	seq, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0
	}
	return seq
}
