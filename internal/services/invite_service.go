package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/crypto"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
	"github.com/taskhive/taskhive/pkg/metrics"
)

const (
	defaultInviteTokenBytes = 24
	tokenCollisionRetries   = 5
)

var (
	// ErrInviteNotFound indicates no invite matches the provided token.
	ErrInviteNotFound = apperrors.New("INVITE_NOT_FOUND", "Invite not found", http.StatusNotFound)
	// ErrInviteInactive signals the invite link has been deactivated.
	ErrInviteInactive = apperrors.New("INVITE_INACTIVE", "Invite link is no longer active", http.StatusBadRequest)
	// ErrUserNotFound indicates the direct-add target does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
)

// AcceptStatus enumerates invite acceptance outcomes.
type AcceptStatus string

const (
	AcceptJoined        AcceptStatus = "joined"
	AcceptAlreadyMember AcceptStatus = "already_member"
)

// AcceptResult reports the outcome of an invite acceptance or direct add.
type AcceptResult struct {
	Status      AcceptStatus `json:"status"`
	WorkspaceID string       `json:"workspace_id"`
}

// InviteOption customises InviteService behaviour.
type InviteOption func(*InviteService)

// WithInviteBaseURL configures the base URL used to build invite hyperlinks.
func WithInviteBaseURL(url string) InviteOption {
	return func(s *InviteService) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// WithInviteTokenSize adjusts the random token length in bytes.
func WithInviteTokenSize(size int) InviteOption {
	return func(s *InviteService) {
		if size > 0 {
			s.tokenLength = size
		}
	}
}

// InviteService manages the workspace invite lifecycle: creation, acceptance,
// deactivation and manager-initiated direct adds.
//
// Consistency rests on the database, not on in-process locks: the membership
// table's (user_id, workspace_id) unique index resolves concurrent accepts to
// one row, and invite creation supersedes prior links inside one transaction.
type InviteService struct {
	db          *gorm.DB
	memberships *MembershipService
	baseURL     string
	tokenLength int
}

// NewInviteService constructs an InviteService with the provided dependencies.
func NewInviteService(db *gorm.DB, memberships *MembershipService, opts ...InviteOption) (*InviteService, error) {
	if db == nil {
		return nil, errors.New("invite service: db is required")
	}
	if memberships == nil {
		return nil, errors.New("invite service: membership service is required")
	}

	service := &InviteService{
		db:          db,
		memberships: memberships,
		tokenLength: defaultInviteTokenBytes,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Create issues a fresh invite for the workspace, superseding any active one.
// The caller must hold member-management rights. When workspaceID is empty the
// creator's default workspace is used.
func (s *InviteService) Create(ctx context.Context, workspaceID, creatorID string) (*models.WorkspaceInvite, error) {
	ctx = ensureContext(ctx)

	membership, err := s.memberships.ResolveMembership(ctx, creatorID, workspaceID)
	if err != nil {
		return nil, err
	}
	if ok, err := s.memberships.CanManageMembers(ctx, membership); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperrors.ErrForbidden
	}

	var invite *models.WorkspaceInvite
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WorkspaceInvite{}).
			Where("workspace_id = ? AND is_active = ?", membership.WorkspaceID, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("invite service: deactivate prior invites: %w", err)
		}

		created, err := s.insertWithFreshToken(tx, membership.WorkspaceID, creatorID)
		if err != nil {
			return err
		}
		invite = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return invite, nil
}

// insertWithFreshToken retries token generation until the unique index on
// token accepts the row. Collisions never surface to the caller.
func (s *InviteService) insertWithFreshToken(tx *gorm.DB, workspaceID, creatorID string) (*models.WorkspaceInvite, error) {
	for attempt := 0; attempt < tokenCollisionRetries; attempt++ {
		token, err := crypto.GenerateToken(s.tokenLength)
		if err != nil {
			return nil, fmt.Errorf("invite service: generate token: %w", err)
		}

		invite := models.WorkspaceInvite{
			Token:       token,
			WorkspaceID: workspaceID,
			CreatedByID: creatorID,
			IsActive:    true,
		}
		err = tx.Create(&invite).Error
		if err == nil {
			return &invite, nil
		}
		if !isUniqueConstraintError(err) {
			return nil, fmt.Errorf("invite service: create invite: %w", err)
		}
	}
	return nil, errors.New("invite service: exhausted token generation retries")
}

// GetByToken loads an invite with its workspace and creator for display.
func (s *InviteService) GetByToken(ctx context.Context, token string) (*models.WorkspaceInvite, error) {
	ctx = ensureContext(ctx)

	var invite models.WorkspaceInvite
	err := s.db.WithContext(ctx).
		Preload("Workspace").
		Preload("Creator").
		Where("token = ?", token).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invite service: load invite: %w", err)
	}
	return &invite, nil
}

// ActiveForWorkspace returns the workspace's current active invite. Requires
// member-management rights.
func (s *InviteService) ActiveForWorkspace(ctx context.Context, workspaceID, actorID string) (*models.WorkspaceInvite, error) {
	ctx = ensureContext(ctx)

	membership, err := s.memberships.GetMembership(ctx, actorID, workspaceID)
	if err != nil {
		return nil, err
	}
	if ok, err := s.memberships.CanManageMembers(ctx, membership); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperrors.ErrForbidden
	}

	var invite models.WorkspaceInvite
	err = s.db.WithContext(ctx).
		Preload("Workspace").
		Preload("Creator").
		Where("workspace_id = ? AND is_active = ?", workspaceID, true).
		Order("created_at DESC").
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invite service: load active invite: %w", err)
	}
	return &invite, nil
}

// Accept joins the user to the invite's workspace. Re-acceptance by an
// existing member is an idempotent no-op that leaves used_count untouched.
// Concurrent accepts race on the membership unique index; the losers observe
// the duplicate and report already_member.
func (s *InviteService) Accept(ctx context.Context, token, userID string) (AcceptResult, error) {
	ctx = ensureContext(ctx)

	var invite models.WorkspaceInvite
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.InviteAccepts.WithLabelValues("rejected").Inc()
		return AcceptResult{}, ErrInviteNotFound
	}
	if err != nil {
		return AcceptResult{}, fmt.Errorf("invite service: load invite: %w", err)
	}
	if !invite.IsActive {
		metrics.InviteAccepts.WithLabelValues("rejected").Inc()
		return AcceptResult{}, ErrInviteInactive
	}

	existing, err := s.memberships.GetMembership(ctx, userID, invite.WorkspaceID)
	if err != nil {
		return AcceptResult{}, err
	}
	if existing != nil {
		metrics.InviteAccepts.WithLabelValues(string(AcceptAlreadyMember)).Inc()
		return AcceptResult{Status: AcceptAlreadyMember, WorkspaceID: invite.WorkspaceID}, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		membership := models.Membership{
			UserID:      userID,
			WorkspaceID: invite.WorkspaceID,
			Role:        models.RoleParticipant,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		return tx.Model(&models.WorkspaceInvite{}).
			Where("token = ?", token).
			Update("used_count", gorm.Expr("used_count + 1")).Error
	})
	if err != nil {
		// A concurrent accept for the same user won the race; fall back to
		// the idempotent outcome instead of erroring.
		if isUniqueConstraintError(err) {
			metrics.InviteAccepts.WithLabelValues(string(AcceptAlreadyMember)).Inc()
			return AcceptResult{Status: AcceptAlreadyMember, WorkspaceID: invite.WorkspaceID}, nil
		}
		return AcceptResult{}, fmt.Errorf("invite service: accept invite: %w", err)
	}

	metrics.InviteAccepts.WithLabelValues(string(AcceptJoined)).Inc()
	return AcceptResult{Status: AcceptJoined, WorkspaceID: invite.WorkspaceID}, nil
}

// Deactivate turns off an invite link. Allowed for workspace managers and for
// the invite's own creator; deactivating an already-inactive invite is a
// harmless no-op.
func (s *InviteService) Deactivate(ctx context.Context, token, actorID string) error {
	ctx = ensureContext(ctx)

	var invite models.WorkspaceInvite
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInviteNotFound
	}
	if err != nil {
		return fmt.Errorf("invite service: load invite: %w", err)
	}

	if invite.CreatedByID != actorID {
		membership, err := s.memberships.GetMembership(ctx, actorID, invite.WorkspaceID)
		if err != nil {
			return err
		}
		if ok, err := s.memberships.CanManageMembers(ctx, membership); err != nil {
			return err
		} else if !ok {
			return apperrors.ErrForbidden
		}
	}

	if !invite.IsActive {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&invite).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("invite service: deactivate invite: %w", err)
	}
	return nil
}

// DirectAdd attaches a specific user to the workspace without a token. The
// same already-member idempotence as Accept applies; used_count is never
// touched because no invite link is involved.
func (s *InviteService) DirectAdd(ctx context.Context, workspaceID, targetUserID, actorID string) (AcceptResult, error) {
	ctx = ensureContext(ctx)

	membership, err := s.memberships.GetMembership(ctx, actorID, workspaceID)
	if err != nil {
		return AcceptResult{}, err
	}
	if ok, err := s.memberships.CanManageMembers(ctx, membership); err != nil {
		return AcceptResult{}, err
	} else if !ok {
		return AcceptResult{}, apperrors.ErrForbidden
	}

	var target models.User
	err = s.db.WithContext(ctx).First(&target, "id = ?", targetUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AcceptResult{}, ErrUserNotFound
	}
	if err != nil {
		return AcceptResult{}, fmt.Errorf("invite service: load user: %w", err)
	}

	existing, err := s.memberships.GetMembership(ctx, targetUserID, workspaceID)
	if err != nil {
		return AcceptResult{}, err
	}
	if existing != nil {
		return AcceptResult{Status: AcceptAlreadyMember, WorkspaceID: workspaceID}, nil
	}

	newMembership := models.Membership{
		UserID:      targetUserID,
		WorkspaceID: workspaceID,
		Role:        models.RoleParticipant,
	}
	if err := s.db.WithContext(ctx).Create(&newMembership).Error; err != nil {
		if isUniqueConstraintError(err) {
			return AcceptResult{Status: AcceptAlreadyMember, WorkspaceID: workspaceID}, nil
		}
		return AcceptResult{}, fmt.Errorf("invite service: add member: %w", err)
	}

	return AcceptResult{Status: AcceptJoined, WorkspaceID: workspaceID}, nil
}

// InviteLink renders the shareable URL for a token.
func (s *InviteService) InviteLink(token string) string {
	if s.baseURL == "" {
		return token
	}
	return fmt.Sprintf("%s/invite/%s", s.baseURL, token)
}
