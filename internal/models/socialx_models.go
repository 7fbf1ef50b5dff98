package models

// Types for the SocialX v2 recent-search API.

type SocialXSearchResponse struct {
	Data     []SocialXPost   `json:"data"`
	Includes SocialXIncludes `json:"includes"`
	Meta     SocialXMeta     `json:"meta"`
}

type SocialXPost struct {
	ID            string         `json:"id"`
	Text          string         `json:"text"`
	AuthorID      string         `json:"author_id"`
	CreatedAt     string         `json:"created_at"`
	PublicMetrics SocialXMetrics `json:"public_metrics"`
}

type SocialXMetrics struct {
	LikeCount   int `json:"like_count"`
	RepostCount int `json:"retweet_count"`
	ReplyCount  int `json:"reply_count"`
}

type SocialXIncludes struct {
	Users []SocialXUser `json:"users"`
}

type SocialXUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type SocialXMeta struct {
	NextToken   string `json:"next_token"`
	ResultCount int    `json:"result_count"`
}
