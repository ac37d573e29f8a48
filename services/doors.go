package services

import (
	"errors"
	"time"

	"doorpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDoorAccessDenied = errors.New("you do not have access to this door")
	ErrAlarmAdminOnly   = errors.New("only an admin can clear an alarm")
	ErrInvalidDoorState = errors.New("invalid door status")
	ErrUnknownUsers     = errors.New("one or more users do not exist")
)

// CanOperateDoor reports whether the user may change the door's status.
// AccessUsers must be loaded.
func CanOperateDoor(d *models.Door, user *models.User) bool {
	if user.IsAdmin() {
		return true
	}
	if d.AccessLevel == models.AccessPublic {
		return true
	}
	return d.HasAccess(user.ID)
}

// ChangeDoorStatus applies a status change on behalf of user. It returns whether the
// door entered the alarm state with this change.
func ChangeDoorStatus(db *gorm.DB, doorID uuid.UUID, user *models.User, status string) (*models.Door, bool, error) {
	if !models.ValidDoorStatus(status) {
		return nil, false, ErrInvalidDoorState
	}

	var door models.Door
	if err := db.Preload("AccessUsers").First(&door, "id = ?", doorID).Error; err != nil {
		return nil, false, err
	}
	if !CanOperateDoor(&door, user) {
		return nil, false, ErrDoorAccessDenied
	}
	if door.Status == models.DoorStatusAlarm && status != models.DoorStatusAlarm && !user.IsAdmin() {
		return nil, false, ErrAlarmAdminOnly
	}

	raised := status == models.DoorStatusAlarm && door.Status != models.DoorStatusAlarm
	now := time.Now()
	door.Status = status
	door.LastChangedByUserID = &user.ID
	door.LastChangedAt = &now

	if err := db.Model(&door).Select("status", "last_changed_by_user_id", "last_changed_at").Updates(&door).Error; err != nil {
		return nil, false, err
	}
	return &door, raised, nil
}

// SetDoorAccessUsers replaces the door's access list.
func SetDoorAccessUsers(db *gorm.DB, doorID uuid.UUID, userIDs []uuid.UUID) (*models.Door, error) {
	unique := make([]uuid.UUID, 0, len(userIDs))
	seen := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var door models.Door
		if err := tx.First(&door, "id = ?", doorID).Error; err != nil {
			return err
		}

		if len(unique) > 0 {
			var count int64
			if err := tx.Model(&models.User{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
				return err
			}
			if int(count) != len(unique) {
				return ErrUnknownUsers
			}
		}

		if err := tx.Exec("DELETE FROM door_access_users WHERE door_id = ?", doorID).Error; err != nil {
			return err
		}
		for _, id := range unique {
			if err := tx.Exec("INSERT INTO door_access_users (door_id, user_id) VALUES (?, ?)", doorID, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var door models.Door
	if err := db.Preload("AccessUsers").First(&door, "id = ?", doorID).Error; err != nil {
		return nil, err
	}
	return &door, nil
}
