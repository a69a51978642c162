package consts

const (
	TopicLikeKey  = "topic:like:"
	TopicViewKey  = "topic:view:"
	TopicPostKey  = "topic:post:"
	PostLikeKey   = "post:like:"
	PostViewKey   = "post:view:"
	TopicDirtyKey = "topic:dirty"
	PostDirtyKey  = "post:dirty"

	ThreadTreeKey = "thread:tree:"

	ViewDedupKey = "view:dedup:"

	EngagementSyncLockKey = "job:engagement:lock"

	SearchTermKey = "search:terms:"
)
