package credential

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	"passvault/internal/domain/errs"
)

type Servicer interface {
	List(ctx context.Context, accountID int64) ([]Record, error)
	Add(ctx context.Context, accountID int64, f Fields) (Record, error)
	Update(ctx context.Context, accountID, recordID int64, f Fields) error
}

// Service is the credential vault. Callers pass the authenticated account
// id; the service never accepts an owner from anywhere else.
type Service struct {
	repo     Repository
	sealer   Sealer
	validate *validator.Validate
	log      *slog.Logger
}

func NewService(repo Repository, sealer Sealer, log *slog.Logger) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Service{
		repo:     repo,
		sealer:   sealer,
		validate: v,
		log:      log.With("component", "credential_service"),
	}
}

// List returns the account's records ordered by id. An account without
// records gets an empty, non-nil slice.
func (s *Service) List(ctx context.Context, accountID int64) ([]Record, error) {
	records, err := s.repo.ListByOwner(ctx, accountID)
	if err != nil {
		s.log.Error("failed to list records", "account_id", accountID, "error", err)
		return nil, errs.ErrStoreUnavailable
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.OwnerID != accountID {
			// should be impossible with an owner-filtered query
			s.log.Error("foreign record in owner listing", "account_id", accountID, "record_id", r.ID, "owner_id", r.OwnerID)
			continue
		}

		secret, err := s.sealer.Open(accountID, r.SiteSecret)
		if err != nil {
			s.log.Error("failed to open site secret", "account_id", accountID, "record_id", r.ID, "error", err)
			return nil, errs.ErrStoreUnavailable
		}
		r.SiteSecret = secret
		out = append(out, r)
	}

	return out, nil
}

func (s *Service) Add(ctx context.Context, accountID int64, f Fields) (Record, error) {
	if err := s.validateFields(f); err != nil {
		s.log.Debug("validation failed", "account_id", accountID, "error", err)
		return Record{}, err
	}

	sealed, err := s.sealer.Seal(accountID, f.SiteSecret)
	if err != nil {
		s.log.Error("failed to seal site secret", "account_id", accountID, "error", err)
		return Record{}, errs.ErrStoreUnavailable
	}

	rec, err := s.repo.Create(ctx, Record{
		OwnerID:    accountID,
		SiteName:   f.SiteName,
		SiteURL:    f.SiteURL,
		SiteSecret: sealed,
	})
	if err != nil {
		s.log.Error("failed to create record", "account_id", accountID, "error", err)
		return Record{}, errs.ErrStoreUnavailable
	}

	s.log.Info("record created", "record_id", rec.ID, "account_id", accountID)

	rec.SiteSecret = f.SiteSecret
	return rec, nil
}

// Update rewrites a record the account owns. A record that does not exist or
// belongs to someone else is left untouched and the call still succeeds.
func (s *Service) Update(ctx context.Context, accountID, recordID int64, f Fields) error {
	if err := s.validateFields(f); err != nil {
		s.log.Debug("validation failed", "account_id", accountID, "record_id", recordID, "error", err)
		return err
	}

	sealed, err := s.sealer.Seal(accountID, f.SiteSecret)
	if err != nil {
		s.log.Error("failed to seal site secret", "account_id", accountID, "record_id", recordID, "error", err)
		return errs.ErrStoreUnavailable
	}

	n, err := s.repo.UpdateOwned(ctx, Record{
		ID:         recordID,
		OwnerID:    accountID,
		SiteName:   f.SiteName,
		SiteURL:    f.SiteURL,
		SiteSecret: sealed,
	})
	if err != nil {
		s.log.Error("failed to update record", "record_id", recordID, "account_id", accountID, "error", err)
		return errs.ErrStoreUnavailable
	}

	if n == 0 {
		s.log.Debug("update matched no owned record", "record_id", recordID, "account_id", accountID)
		return nil
	}

	s.log.Info("record updated", "record_id", recordID, "account_id", accountID)
	return nil
}

func (s *Service) validateFields(f Fields) error {
	err := s.validate.Struct(f)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs.InvalidInput("invalid credential fields")
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag()))
		}
	}
	return errs.InvalidInput("%s", strings.Join(msgs, "; "))
}
