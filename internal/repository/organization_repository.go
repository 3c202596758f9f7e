package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iomp-platform/iomp-api/internal/models"
)

// OrganizationRepository handles persistence of organizations.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository constructs the repository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// FindByDomain returns an organization matching the domain, if any.
func (r *OrganizationRepository) FindByDomain(ctx context.Context, domain string) (*models.Organization, error) {
	const query = `SELECT id, name, domain, created_at FROM organizations WHERE domain = $1 LIMIT 1`
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, domain); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find organization by domain: %w", err)
	}
	return &org, nil
}

// Create inserts a new organization.
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO organizations (id, name, domain, created_at) VALUES (:id, :name, :domain, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, org); err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}
