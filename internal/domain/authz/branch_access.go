package authz

import (
	"fmt"
	"time"

	vo "sentra/internal/domain/authz/value_objects"
)

// BranchAccess links a user to a branch they may operate in. A user with no
// BranchAccess rows at all is unrestricted: absence of restriction rows
// means access to every branch, not access to none.
type BranchAccess struct {
	id          uint
	userID      uint
	branchID    uint
	accessLevel vo.AccessLevel
	isDefault   bool
	createdAt   time.Time
}

func NewBranchAccess(userID, branchID uint, accessLevel vo.AccessLevel, isDefault bool) (*BranchAccess, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if branchID == 0 {
		return nil, fmt.Errorf("branch ID is required")
	}
	if accessLevel == "" {
		accessLevel = vo.AccessLevelFull
	}

	return &BranchAccess{
		userID:      userID,
		branchID:    branchID,
		accessLevel: accessLevel,
		isDefault:   isDefault,
		createdAt:   time.Now(),
	}, nil
}

func ReconstructBranchAccess(id, userID, branchID uint, accessLevel vo.AccessLevel, isDefault bool, createdAt time.Time) (*BranchAccess, error) {
	if id == 0 {
		return nil, fmt.Errorf("branch access ID cannot be zero")
	}

	return &BranchAccess{
		id:          id,
		userID:      userID,
		branchID:    branchID,
		accessLevel: accessLevel,
		isDefault:   isDefault,
		createdAt:   createdAt,
	}, nil
}

func (b *BranchAccess) ID() uint {
	return b.id
}

func (b *BranchAccess) SetID(id uint) error {
	if b.id != 0 {
		return fmt.Errorf("branch access ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("branch access ID cannot be zero")
	}
	b.id = id
	return nil
}

func (b *BranchAccess) UserID() uint {
	return b.userID
}

func (b *BranchAccess) BranchID() uint {
	return b.branchID
}

func (b *BranchAccess) AccessLevel() vo.AccessLevel {
	return b.accessLevel
}

func (b *BranchAccess) IsDefault() bool {
	return b.isDefault
}

func (b *BranchAccess) CreatedAt() time.Time {
	return b.createdAt
}

func (b *BranchAccess) MarkDefault() {
	b.isDefault = true
}

func (b *BranchAccess) ClearDefault() {
	b.isDefault = false
}
