package catalog

import "context"

type Repository interface {
	Create(ctx context.Context, name, description string, price float64, durationValue int, durationUnit DurationUnit, sessionCount int) (*PackageDefinition, error)
	GetByID(ctx context.Context, id int) (*PackageDefinition, error)
	ListActive(ctx context.Context) ([]PackageDefinition, error)
	ListAll(ctx context.Context) ([]PackageDefinition, error)
	Update(ctx context.Context, pkg *PackageDefinition) error
	Deactivate(ctx context.Context, id int) error
}
