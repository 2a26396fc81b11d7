package content

import (
	"errors"
	"fmt"
)

// NoticeLevel classifies a notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is the user-facing outcome of an admin action.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// NoticeFor describes the outcome of action ("create", "update", "delete",
// "reload").
func NoticeFor(action string, err error) Notice {
	if err == nil {
		return Notice{Level: NoticeSuccess, Message: successMessage(action)}
	}
	switch {
	case errors.Is(err, ErrVersionConflict):
		return Notice{Level: NoticeError, Message: "This section was changed by someone else. Reload and try again."}
	case errors.Is(err, ErrSectionExists):
		return Notice{Level: NoticeError, Message: "This section already exists on the page."}
	case errors.Is(err, ErrSectionNotAllowed):
		return Notice{Level: NoticeError, Message: "This section cannot be added to the page."}
	case errors.Is(err, ErrRecordNotFound):
		return Notice{Level: NoticeError, Message: "The section no longer exists."}
	}
	return Notice{Level: NoticeError, Message: fmt.Sprintf("Failed to %s content: %v", action, err)}
}

func successMessage(action string) string {
	switch action {
	case "create":
		return "Section created."
	case "update":
		return "Content updated."
	case "delete":
		return "Section deleted."
	case "reload":
		return "Content reloaded."
	}
	return "Done."
}
