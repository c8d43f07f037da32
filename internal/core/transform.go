package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RowContext is what a TransformFunc may use besides the row itself.
type RowContext struct {
	Owner      uuid.UUID
	Ordinal    int
	Line       int
	SourceFile string
	Raw        []string
	Resolver   *Resolver
	Label      string
}

// Origin returns the provenance to stamp on the record.
func (rc RowContext) Origin() Origin {
	return Origin{SourceFile: rc.SourceFile, Ordinal: rc.Ordinal, Line: rc.Line, Raw: rc.Raw}
}

// DefaultName is the name given to rows whose name cell is empty, e.g. "Task_42".
func (rc RowContext) DefaultName() string {
	return DefaultDisplayName(rc.Label, rc.Ordinal)
}

// NameOr returns the cleaned name, or DefaultName when it is empty.
func (rc RowContext) NameOr(raw string) string {
	if text := CleanText(raw); text.Valid {
		return text.String
	}
	return rc.DefaultName()
}

// DefaultDisplayName formats "{label}_{ordinal}".
func DefaultDisplayName(label string, ordinal int) string {
	return fmt.Sprintf("%s_%d", label, ordinal)
}

// Transformer applies an entity's TransformFunc with the run's owner and
// resolver. It performs no writes; only the lookup cache may read the store.
type Transformer struct {
	owner    uuid.UUID
	resolver *Resolver
}

// NewTransformer creates a transformer for owner.
func NewTransformer(owner uuid.UUID, resolver *Resolver) *Transformer {
	return &Transformer{owner: owner, resolver: resolver}
}

// TransformRow converts one row. Panics in the entity code are returned as
// errors so a single bad row cannot end the run.
func (t *Transformer) TransformRow(ctx context.Context, def EntityDefinition, row SourceRow, ordinal int, sourceFile string) (rec Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("transform panic: %v", r)
		}
	}()

	label := def.Info.Label
	if label == "" {
		label = strings.TrimSuffix(def.Info.Key, "s")
	}

	rc := RowContext{
		Owner:      t.owner,
		Ordinal:    ordinal,
		Line:       row.Line,
		SourceFile: sourceFile,
		Raw:        row.Values,
		Resolver:   t.resolver,
		Label:      label,
	}

	rec, err = def.Transform(ctx, rc, row)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("transform returned no record")
	}
	return rec, nil
}
