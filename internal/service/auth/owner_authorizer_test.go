package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
)

type fakeProjectRepo struct {
	owner string
	err   error
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id, userID string) (*models.Project, error) {
	if r.err != nil {
		return nil, r.err
	}
	if userID != r.owner {
		return nil, &domain.NotFoundError{Message: "project not found"}
	}
	return &models.Project{ID: id, UserID: userID}, nil
}

func TestOwnerBasedAuthorizer_CanAccessProject(t *testing.T) {
	boom := errors.New("pool closed")

	tests := []struct {
		name    string
		repo    *fakeProjectRepo
		userID  string
		wantErr error
	}{
		{name: "owner", repo: &fakeProjectRepo{owner: "u1"}, userID: "u1"},
		{name: "not owner", repo: &fakeProjectRepo{owner: "u1"}, userID: "u2", wantErr: domain.ErrForbidden},
		{name: "anonymous", repo: &fakeProjectRepo{owner: "u1"}, userID: "", wantErr: domain.ErrUnauthorized},
		{name: "repository failure", repo: &fakeProjectRepo{err: boom}, userID: "u1", wantErr: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewOwnerBasedAuthorizer(tt.repo).CanAccessProject(context.Background(), tt.userID, "p1")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
