package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/tetracube/internal/ability"
	"github.com/cory-johannsen/tetracube/internal/derive"
	"github.com/cory-johannsen/tetracube/internal/statblock"
)

// User-facing failure messages passed to Reporter.ReportError.
const (
	MsgInvalidStatblock = "Invalid Monster statblock data."
	MsgImportFailed     = "Failed to import statblock."
	MsgPersistFailed    = "Failed to import."
)

// ErrPersistence wraps every failure returned by a Store.
var ErrPersistence = errors.New("persistence failure")

// Reporter relays failure messages to the end user.
//
// Implementations must be safe for concurrent use.
type Reporter interface {
	ReportError(ctx context.Context, message string)
}

// Store persists converted creatures. A creature and its features form one
// logical unit; the Importer deletes the creature when its features fail.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// CreateCreature persists actor and returns an opaque reference to it.
	CreateCreature(ctx context.Context, actor *derive.Actor) (string, error)
	// CreateFeatureItems attaches features, in order, to the creature at ref.
	CreateFeatureItems(ctx context.Context, ref string, features []ability.Feature) error
	// DeleteCreature removes the creature at ref together with any features.
	DeleteCreature(ctx context.Context, ref string) error
}

// Collaborator is the full host contract: reporting plus persistence.
type Collaborator interface {
	Reporter
	Store
}

// Imported summarises one successfully persisted creature.
type Imported struct {
	Name     string
	Ref      string
	Features int
}

// Importer runs the parse, convert and persist flow for statblocks.
type Importer struct {
	store    Store
	reporter Reporter
	logger   *zap.Logger
}

// New constructs an Importer.
//
// Precondition: store and reporter must be non-nil.
// Postcondition: returns a non-nil Importer. A nil logger disables logging.
func New(store Store, reporter Reporter, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: store, reporter: reporter, logger: logger}
}

// LookupMessage is the user-facing message for a missing table entry.
func LookupMessage(e *derive.MissingLookupError) string {
	return fmt.Sprintf("Unknown %s %q in statblock.", e.Table, e.Key)
}

// Message maps an error from any stage of the import flow to the message
// shown to the end user.
//
// Precondition: err must be non-nil.
func Message(err error) string {
	var mle *derive.MissingLookupError
	switch {
	case errors.Is(err, statblock.ErrSyntax):
		return MsgInvalidStatblock
	case errors.As(err, &mle):
		return LookupMessage(mle)
	case errors.Is(err, ErrPersistence):
		return MsgPersistFailed
	default:
		return MsgImportFailed
	}
}

// ImportBytes parses data as a .monster document and persists the result.
//
// Postcondition: on success the creature and all its features are stored;
// on failure exactly one message has been reported and nothing remains
// stored unless the rollback itself failed, in which case the returned error
// joins both failures.
func (imp *Importer) ImportBytes(ctx context.Context, data []byte) (*Imported, error) {
	sb, err := statblock.Parse(data)
	if err != nil {
		imp.reporter.ReportError(ctx, Message(err))
		return nil, err
	}
	return imp.Import(ctx, sb)
}

// ImportFile reads the file at path and imports it.
func (imp *Importer) ImportFile(ctx context.Context, path string) (*Imported, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("reading statblock %s: %w", path, err)
		imp.reporter.ReportError(ctx, Message(err))
		return nil, err
	}
	out, err := imp.ImportBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return out, nil
}

// Import converts sb and persists the creature followed by its features.
//
// Precondition: sb must be non-nil.
func (imp *Importer) Import(ctx context.Context, sb *statblock.Statblock) (*Imported, error) {
	start := time.Now()

	res, err := Convert(sb, imp.logger)
	if err != nil {
		imp.reporter.ReportError(ctx, Message(err))
		return nil, err
	}

	ref, err := imp.store.CreateCreature(ctx, res.Actor)
	if err != nil {
		err = fmt.Errorf("%w: creating creature %q: %w", ErrPersistence, sb.Name, err)
		imp.reporter.ReportError(ctx, Message(err))
		return nil, err
	}

	if err := imp.store.CreateFeatureItems(ctx, ref, res.Features); err != nil {
		imp.logger.Warn("feature creation failed, rolling back creature",
			zap.String("name", sb.Name),
			zap.String("ref", ref),
			zap.Error(err),
		)
		failure := fmt.Errorf("%w: creating features for %q: %w", ErrPersistence, sb.Name, err)
		imp.reporter.ReportError(ctx, Message(failure))
		if derr := imp.store.DeleteCreature(context.WithoutCancel(ctx), ref); derr != nil {
			return nil, errors.Join(failure, fmt.Errorf("rolling back creature %s: %w", ref, derr))
		}
		return nil, failure
	}

	imp.logger.Info("imported creature",
		zap.String("name", sb.Name),
		zap.String("ref", ref),
		zap.Int("features", len(res.Features)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Imported{Name: sb.Name, Ref: ref, Features: len(res.Features)}, nil
}

// ImportFiles imports every path with at most workers imports in flight.
// A failing file does not stop the others.
//
// Precondition: workers must be >= 1.
// Postcondition: the returned slice is index-aligned with paths and holds nil
// for each failed file; the error joins every per-file failure.
func (imp *Importer) ImportFiles(ctx context.Context, paths []string, workers int) ([]*Imported, error) {
	if workers < 1 {
		return nil, fmt.Errorf("workers must be >= 1, got %d", workers)
	}
	results := make([]*Imported, len(paths))

	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("importing %s: %w", path, err))
				mu.Unlock()
				return nil
			}
			out, err := imp.ImportFile(ctx, path)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			results[i] = out
			return nil
		})
	}
	// Workers record failures in errs and never return one.
	g.Wait()
	return results, errors.Join(errs...)
}
