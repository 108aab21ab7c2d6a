package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
	"github.com/vicdevmanx/gurutasks/pkg/helpers"
	"github.com/vicdevmanx/gurutasks/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserSuspended      = errors.New("account suspended")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")
)

const resetTokenTTL = 15 * time.Minute

// ImageUpload carries an uploaded file stream into a service.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// UserService owns account lifecycle: signup, login, password reset,
// profile updates, suspension, and the Elasticsearch user index.
type UserService struct {
	Users        repository.UserRepository
	Resolver     *Resolver
	JWT          *helpers.JWTManager
	GCS          *storage.Client
	GCSBucket    string
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Pub          *helpers.RabbitPublisher
	ClientURL    string
	MailEnabled  bool
}

func sessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Signup creates an account. The role name is resolved (get-or-create)
// before the user insert so a failed resolution writes nothing.
func (s *UserService) Signup(ctx context.Context, in SignupInput, pic *ImageUpload) (*ClientUser, string, error) {
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	roleID, err := s.Resolver.Resolve(ctx, repository.KindRole, in.Role)
	if err != nil {
		return nil, "", err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		RoleID:       roleID,
	}
	if pic != nil {
		url, err := s.uploadImage(ctx, "profile-pics", pic)
		if err != nil {
			return nil, "", err
		}
		u.ProfilePic = &url
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	s.cacheSession(ctx, u)
	_ = s.indexUser(ctx, u)

	row, err := s.Users.GetRow(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	out := ProjectUser(*row)
	return &out, token, nil
}

// Login validates credentials and issues a token. Suspended accounts are
// refused.
func (s *UserService) Login(ctx context.Context, email, password string) (*ClientUser, string, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	if u.Suspended {
		return nil, "", ErrUserSuspended
	}
	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	s.cacheSession(ctx, u)

	row, err := s.Users.GetRow(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	out := ProjectUser(*row)
	return &out, token, nil
}

// ForgotPassword stores a fresh reset token on the user row and enqueues
// the reset email. Unknown emails surface ErrUserNotFound.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	token := hex.EncodeToString(b)
	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.Users.SetResetToken(ctx, u.ID, token, expiresAt); err != nil {
		return err
	}

	link := strings.TrimRight(s.ClientURL, "/") + "/reset-password/" + token
	if s.Pub != nil && s.MailEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailer.TemplateResetPassword,
			Data: map[string]any{
				"ResetURL":         link,
				"ExpiresInMinutes": float64(resetTokenTTL / time.Minute),
			},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue reset email failed")
		}
	}
	return nil
}

// ResetPassword consumes a reset token, replacing the password and
// clearing the token fields.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	u, err := s.Users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	if u.ResetTokenExpiresAt == nil || u.ResetTokenExpiresAt.Before(time.Now()) {
		return ErrResetTokenInvalid
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.Users.SetPassword(ctx, u.ID, hash); err != nil {
		return err
	}
	return s.Users.ClearResetToken(ctx, u.ID)
}

func (s *UserService) List(ctx context.Context) ([]ClientUser, error) {
	rows, err := s.Users.ListRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ClientUser, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProjectUser(r))
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*ClientUser, error) {
	row, err := s.Users.GetRow(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	out := ProjectUser(*row)
	return &out, nil
}

type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *string
}

// Update applies a partial user update. A provided role name is resolved
// through the get-or-create path; an absent image leaves the stored one
// untouched.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput, pic *ImageUpload) (*ClientUser, error) {
	upd := repository.UserUpdate{Name: in.Name, Email: in.Email}
	if in.Role != nil {
		roleID, err := s.Resolver.Resolve(ctx, repository.KindRole, *in.Role)
		if err != nil {
			return nil, err
		}
		upd.RoleID = &roleID
	}
	if pic != nil {
		url, err := s.uploadImage(ctx, "profile-pics", pic)
		if err != nil {
			return nil, err
		}
		upd.ProfilePic = &url
	}
	if err := s.Users.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	row, err := s.Users.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, &row.User)
	out := ProjectUser(*row)
	return &out, nil
}

// Suspend toggles the suspended flag and returns the updated user.
func (s *UserService) Suspend(ctx context.Context, id int64, suspended bool) (*ClientUser, error) {
	if err := s.Users.SetSuspended(ctx, id, suspended); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete hard-deletes the user and drops its search document.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.deindexUser(ctx, id)
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(id)).Err()
	}
	return nil
}

func (s *UserService) cacheSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(u.ID)
	fields := map[string]any{
		"user_id":     u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"access_role": u.AccessRole,
		"logged_in":   true,
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

func (s *UserService) uploadImage(ctx context.Context, folder string, img *ImageUpload) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(img.Filename))
	objectPath := folder + "/" + id + ext
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, img.ContentType, img.Reader)
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"access_role": u.AccessRole,
		"suspended":   u.Suspended,
		"profile_pic": u.ProfilePic,
		"created_at":  u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESUsersIndex,
		DocumentID: strconv.FormatInt(u.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *UserService) deindexUser(ctx context.Context, id int64) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match search on email and name.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
