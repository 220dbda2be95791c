package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tetracube/internal/ability"
	"github.com/cory-johannsen/tetracube/internal/derive"
	"github.com/cory-johannsen/tetracube/internal/importer"
)

// ErrCreatureNotFound is returned when a creature reference matches no row.
var ErrCreatureNotFound = errors.New("creature not found")

// Creature is a stored creature with its features in insertion order.
type Creature struct {
	Ref       string
	Slug      string
	Actor     *derive.Actor
	Features  []ability.Feature
	CreatedAt time.Time
}

// CreatureRepository persists creatures and their features. It implements
// importer.Store.
type CreatureRepository struct {
	db *pgxpool.Pool
}

var _ importer.Store = (*CreatureRepository)(nil)

// NewCreatureRepository creates a CreatureRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCreatureRepository(db *pgxpool.Pool) *CreatureRepository {
	return &CreatureRepository{db: db}
}

// CreateCreature inserts actor and returns its id as the reference.
//
// Precondition: actor must be non-nil.
// Postcondition: Returns the new row's id, or a non-nil error.
func (r *CreatureRepository) CreateCreature(ctx context.Context, actor *derive.Actor) (string, error) {
	data, err := json.Marshal(actor)
	if err != nil {
		return "", fmt.Errorf("encoding creature %q: %w", actor.Name, err)
	}
	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO creatures (slug, name, cr, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		importer.NameToID(actor.Name), actor.Name, actor.Details.CR, data,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting creature: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// CreateFeatureItems appends features to the creature at ref in one
// transaction; either every feature is stored or none is.
//
// Postcondition: Returns nil on success, ErrCreatureNotFound if ref is unknown.
func (r *CreatureRepository) CreateFeatureItems(ctx context.Context, ref string, features []ability.Feature) error {
	id, err := parseRef(ref)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning feature transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var next int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(f.position) + 1, 0)
		FROM creatures c LEFT JOIN creature_features f ON f.creature_id = c.id
		WHERE c.id = $1
		GROUP BY c.id`,
		id,
	).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCreatureNotFound
		}
		return fmt.Errorf("locating creature %s: %w", ref, err)
	}

	batch := &pgx.Batch{}
	for i, f := range features {
		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encoding feature %q: %w", f.Name, err)
		}
		batch.Queue(`
			INSERT INTO creature_features (creature_id, position, name, kind, data)
			VALUES ($1, $2, $3, $4, $5)`,
			id, next+i, f.Name, string(f.Kind), data,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting features: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing features: %w", err)
	}
	return nil
}

// DeleteCreature removes the creature at ref; its features cascade.
//
// Postcondition: Returns nil on success, ErrCreatureNotFound if no row was deleted.
func (r *CreatureRepository) DeleteCreature(ctx context.Context, ref string) error {
	id, err := parseRef(ref)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM creatures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting creature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCreatureNotFound
	}
	return nil
}

// Get loads the creature at ref with its features.
//
// Postcondition: Returns the Creature or ErrCreatureNotFound.
func (r *CreatureRepository) Get(ctx context.Context, ref string) (*Creature, error) {
	id, err := parseRef(ref)
	if err != nil {
		return nil, err
	}

	c := Creature{Ref: ref}
	var data []byte
	err = r.db.QueryRow(ctx, `
		SELECT slug, data, created_at FROM creatures WHERE id = $1`,
		id,
	).Scan(&c.Slug, &data, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCreatureNotFound
		}
		return nil, fmt.Errorf("querying creature: %w", err)
	}
	if err := json.Unmarshal(data, &c.Actor); err != nil {
		return nil, fmt.Errorf("decoding creature %s: %w", ref, err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT data FROM creature_features WHERE creature_id = $1 ORDER BY position ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing features: %w", err)
	}
	defer rows.Close()

	c.Features = make([]ability.Feature, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning feature row: %w", err)
		}
		var f ability.Feature
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decoding feature of %s: %w", ref, err)
		}
		c.Features = append(c.Features, f)
	}
	return &c, rows.Err()
}

func parseRef(ref string) (int64, error) {
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid reference %q", ErrCreatureNotFound, ref)
	}
	return id, nil
}
