package consts

// 点赞/浏览目标类型
const (
	TargetTypeTopic int8 = 1
	TargetTypePost  int8 = 2
)

// 分类类型标签
const (
	CategoryTypeGeneral      int8 = 1
	CategoryTypeQnA          int8 = 2
	CategoryTypeAnnouncement int8 = 3
	CategoryTypeFeedback     int8 = 4
)

// TombstoneContent 软删除帖子对外展示的占位内容
const TombstoneContent = "该内容已被删除"

const (
	RoleAdmin = "ADMIN"
)

// ES 文档类型
const (
	DocTypeTopic = "topic"
	DocTypePost  = "post"
)
