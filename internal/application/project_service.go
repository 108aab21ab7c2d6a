package application

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
	"github.com/vicdevmanx/gurutasks/pkg/helpers"
)

var ErrProjectNotFound = errors.New("project not found")

// defaultMemberRole is the role name resolved for single-member assignment
// when the caller does not pick one.
const defaultMemberRole = "member"

// ProjectService owns project lifecycle and the membership link table.
type ProjectService struct {
	Projects  repository.ProjectRepository
	Resolver  *Resolver
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

type CreateProjectInput struct {
	Name          string
	Description   string
	Notifications json.RawMessage
	MemberIDs     []int64
}

// Create inserts the project and then its membership rows. Membership
// insertion failures are logged but do not roll back the project; there is
// no multi-statement transaction here.
func (s *ProjectService) Create(ctx context.Context, ownerID int64, in CreateProjectInput, image *ImageUpload) (*ClientProject, error) {
	p := &entity.Project{
		Name:          in.Name,
		Description:   in.Description,
		OwnerID:       ownerID,
		Notifications: in.Notifications,
	}
	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		p.Image = &url
	}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}

	if len(in.MemberIDs) > 0 {
		if err := s.Projects.ReplaceMembers(ctx, p.ID, in.MemberIDs); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("project_id", p.ID).Warn("insert project members failed")
		}
	}

	row, err := s.Projects.GetRow(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := ProjectProject(*row)
	return &out, nil
}

func (s *ProjectService) List(ctx context.Context) ([]ClientProject, error) {
	rows, err := s.Projects.ListRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ClientProject, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProjectProject(r))
	}
	return out, nil
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*ClientProject, error) {
	row, err := s.Projects.GetRow(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	out := ProjectProject(*row)
	return &out, nil
}

type UpdateProjectInput struct {
	Name          *string
	Description   *string
	Notifications json.RawMessage
	StatusID      *int64
	Priority      *string
	// MemberIDs nil means leave memberships alone; non-nil (even empty)
	// replaces the whole list.
	MemberIDs []int64
}

// Update applies a partial project update, then replaces the member list
// when one was sent.
func (s *ProjectService) Update(ctx context.Context, id int64, in UpdateProjectInput, image *ImageUpload) (*ClientProject, error) {
	upd := repository.ProjectUpdate{
		Name:          in.Name,
		Description:   in.Description,
		Notifications: in.Notifications,
		StatusID:      in.StatusID,
		Priority:      in.Priority,
	}
	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		upd.Image = &url
	}
	if err := s.Projects.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if in.MemberIDs != nil {
		if err := s.Projects.ReplaceMembers(ctx, id, in.MemberIDs); err != nil {
			return nil, err
		}
	}

	row, err := s.Projects.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ProjectProject(*row)
	return &out, nil
}

func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.Projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

// AssignMember adds one user to the project. When no role id is given the
// "member" role is resolved through the get-or-create path rather than a
// hardcoded id.
func (s *ProjectService) AssignMember(ctx context.Context, projectID, userID int64, roleID *int64) error {
	if roleID == nil {
		id, err := s.Resolver.Resolve(ctx, repository.KindRole, defaultMemberRole)
		if err != nil {
			return err
		}
		roleID = &id
	}
	err := s.Projects.AddMember(ctx, entity.ProjectMember{ProjectID: projectID, UserID: userID, RoleID: roleID})
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Already a member; treat assignment as idempotent.
		return nil
	}
	return err
}

func (s *ProjectService) uploadImage(ctx context.Context, img *ImageUpload) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(img.Filename))
	objectPath := "project-images/" + id + ext
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, img.ContentType, img.Reader)
}
