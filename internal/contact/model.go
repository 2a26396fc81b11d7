package contact

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Message is a contact form submission.
type Message struct {
	bun.BaseModel `bun:"table:contact_messages,alias:cm"`

	ID        uuid.UUID `bun:",pk,type:uuid"                                         json:"id"`
	Name      string    `bun:"name,notnull"                                          json:"name"`
	Email     string    `bun:"email,notnull"                                         json:"email"`
	Phone     string    `bun:"phone"                                                 json:"phone,omitempty"`
	Subject   string    `bun:"subject,notnull"                                       json:"subject"`
	Message   string    `bun:"message,notnull"                                       json:"message"`
	IsRead    bool      `bun:"is_read,notnull,default:false"                         json:"is_read"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
