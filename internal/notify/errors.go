package notify

import (
	"errors"
)

var ErrNotifyingSubscriberFailed = errors.New("notifying subscriber failed")
var ErrWritingAuditRecordFailed = errors.New("writing audit record failed")
