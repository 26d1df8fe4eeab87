package models

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string    `json:"name" gorm:"type:text;not null"`
	Email          string    `json:"email" gorm:"type:text;not null;uniqueIndex:patient_email"`
	Address        string    `json:"address" gorm:"type:text;not null"`
	DateOfBirth    time.Time `json:"dateOfBirth" gorm:"type:date;not null"`
	RegisteredDate time.Time `json:"registeredDate" gorm:"->;<-:create;type:date;not null"`
	CDate          time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate          time.Time `json:"mdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}
