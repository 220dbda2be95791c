package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// Roll draws one face per die of expr from src. The result is untyped.
//
// Precondition: expr must come from Parse; src must be non-nil.
func Roll(expr Expression, src Source) Damage {
	faces := make([]int, expr.Count)
	for i := range faces {
		faces[i] = 1 + src.Intn(expr.Sides)
	}
	return Damage{Expr: expr, Faces: faces}
}

// Roller rolls damage parts and records each roll at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller returns a Roller drawing from src. A nil logger disables logging.
//
// Precondition: src must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// RollDamage parses notation and rolls it as damage of damageType.
//
// Postcondition: returns the rolled Damage, or the parse error and no roll.
func (r *Roller) RollDamage(notation, damageType string) (Damage, error) {
	expr, err := Parse(notation)
	if err != nil {
		return Damage{}, fmt.Errorf("rolling %q: %w", notation, err)
	}
	d := Roll(expr, r.src)
	d.Type = damageType
	r.logger.Debug("damage roll",
		zap.String("type", damageType),
		zap.String("notation", expr.Notation()),
		zap.Ints("faces", d.Faces),
		zap.Int("modifier", expr.Modifier),
		zap.Int("total", d.Total()),
	)
	return d, nil
}
