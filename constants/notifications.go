package constants

const (
	NotifyTaskAssigned           = "task_assigned"
	NotifyTaskCompleted          = "task_completed"
	NotifyTaskModified           = "task_modified"
	NotifyCommentAdded           = "comment_added"
	NotifyAttachmentAdded        = "attachment_added"
	NotifyProfileApprovalRequest = "profile_approval_request"
	NotifyProfileApproved        = "profile_approved"
	NotifyProfileRejected        = "profile_rejected"
)

const (
	ProfileChangePending  = "pending"
	ProfileChangeApproved = "approved"
	ProfileChangeDenied   = "denied"
)
