package statement

import (
	"fmt"
	"math"

	"github.com/artie-labs/sqlargs/lib/sqlargs"
)

// MaxPosition is the highest parameter position, MySQL and Postgres both cap a statement at 65535 parameters.
const MaxPosition = math.MaxUint16

// Params holds driver values bound by 1-based position. Index 0 of [values] is position 1.
// It is shared by the database/sql and pgx statements.
type Params struct {
	values []any
	bound  []bool
}

func (p *Params) Set(position int, value sqlargs.Value) error {
	if position < 1 {
		return fmt.Errorf("%w: %d, positions start at 1", ErrInvalidPosition, position)
	} else if position > MaxPosition {
		return fmt.Errorf("%w: %d, positions cannot exceed %d", ErrInvalidPosition, position, MaxPosition)
	}

	driverValue, err := value.Value()
	if err != nil {
		return err
	}

	if missing := position - len(p.values); missing > 0 {
		p.values = append(p.values, make([]any, missing)...)
		p.bound = append(p.bound, make([]bool, missing)...)
	}

	p.values[position-1] = driverValue
	p.bound[position-1] = true
	return nil
}

func (p *Params) Clear() {
	p.values = nil
	p.bound = nil
}

func (p *Params) DriverValues() ([]any, error) {
	for i, isBound := range p.bound {
		if !isBound {
			return nil, fmt.Errorf("%w: %d", ErrUnboundPosition, i+1)
		}
	}

	result := make([]any, len(p.values))
	copy(result, p.values)
	return result, nil
}
