package i18n

var messages = map[string]map[string]string{
	English: {
		// errors
		"VALIDATION_ERROR":   "validation failed",
		"INVALID_REQUEST":    "invalid request payload",
		"INVALID_ID":         "invalid id",
		"NOT_FOUND":          "requested resource does not exist",
		"TOKEN_MISSING":      "invalid link: the access token is missing",
		"LINK_EXPIRED":       "this survey link has expired",
		"LINK_USED":          "this survey link has already been used",
		"LINK_INVALID":       "this survey link is invalid",
		"SURVEY_NOT_FOUND":   "survey not found",
		"QUESTION_NOT_FOUND": "question not found",
		"ANSWER_LOCKED":      "this answer was prefilled and cannot be changed",
		"ANSWERS_INVALID":    "please check your answers",
		"SURVEY_EMPTY":       "a survey needs at least one question before it can be published",
		"ALREADY_PUBLISHED":  "survey is already published",
		"NOT_PUBLISHED":      "only published surveys can be shared",
		"NOT_TABLE_QUESTION": "question is not a table question",
		"ROW_LIMIT":          "maximum number of rows reached",
		"ROWS_LOCKED":        "rows cannot be added to this table",
		"MIN_ROWS":           "minimum number of rows reached",
		"CELL_OUT_OF_RANGE":  "cell position out of range",
		"INVALID_CELL":       "invalid cell value",
		"UNAUTHORIZED":       "unauthorized, please log in again",
		"LOGIN_FAILED":       "invalid username or password",
		"FORBIDDEN":          "permission denied",
		"NETWORK_ERROR":      "network connection failed, please check your connection",
		"BACKEND_ERROR":      "request failed",
		"INTERNAL_ERROR":     "internal server error",

		"SERVICE_UNAVAILABLE": "service temporarily unavailable",

		// answer validation
		"REQUIRED":       "required field",
		"INVALID_FORMAT": "invalid answer format",
		"UNKNOWN_TYPE":   "unknown question type",
		"TOO_FEW_ROWS":   "at least %d rows required",
		"TOO_MANY_ROWS":  "at most %d rows allowed",

		// results
		"msg.logged_out":      "logged out",
		"msg.draft_discarded": "draft discarded",
		"msg.submitted":       "thank you, your response has been submitted",
		"msg.deleted":         "deleted",
		"msg.reordered":       "questions reordered",
		"msg.published":       "survey published",

		// export labels
		"label.id":           "ID",
		"label.submitted_at": "Submitted at",
		"label.ip_address":   "IP address",
		"label.row":          "Row %d",
		"label.sheet":        "Responses",
	},
	Chinese: {
		"VALIDATION_ERROR":   "数据验证失败",
		"INVALID_REQUEST":    "请求参数错误",
		"INVALID_ID":         "无效的 ID",
		"NOT_FOUND":          "请求的资源不存在",
		"TOKEN_MISSING":      "无效的访问链接：缺少访问令牌",
		"LINK_EXPIRED":       "该问卷链接已过期",
		"LINK_USED":          "该问卷链接已被使用",
		"LINK_INVALID":       "该问卷链接无效",
		"SURVEY_NOT_FOUND":   "问卷不存在",
		"QUESTION_NOT_FOUND": "题目不存在",
		"ANSWER_LOCKED":      "该答案已预填，不能修改",
		"ANSWERS_INVALID":    "请检查您的答案",
		"SURVEY_EMPTY":       "问卷至少需要一个题目才能发布",
		"ALREADY_PUBLISHED":  "问卷已发布",
		"NOT_PUBLISHED":      "只能分享已发布的问卷",
		"NOT_TABLE_QUESTION": "该题目不是表格题",
		"ROW_LIMIT":          "已达到最大行数",
		"ROWS_LOCKED":        "该表格不允许添加行",
		"MIN_ROWS":           "已达到最小行数",
		"CELL_OUT_OF_RANGE":  "单元格位置超出范围",
		"INVALID_CELL":       "单元格内容无效",
		"UNAUTHORIZED":       "未授权，请重新登录",
		"LOGIN_FAILED":       "用户名或密码错误",
		"FORBIDDEN":          "拒绝访问",
		"NETWORK_ERROR":      "网络连接失败，请检查网络",
		"BACKEND_ERROR":      "请求失败",
		"INTERNAL_ERROR":     "服务器内部错误",

		"SERVICE_UNAVAILABLE": "服务暂时不可用",

		"REQUIRED":       "此题为必填项",
		"INVALID_FORMAT": "答案格式不正确",
		"UNKNOWN_TYPE":   "未知的题目类型",
		"TOO_FEW_ROWS":   "至少需要填写 %d 行",
		"TOO_MANY_ROWS":  "最多只能填写 %d 行",

		"msg.logged_out":      "已退出登录",
		"msg.draft_discarded": "草稿已清除",
		"msg.submitted":       "感谢您的参与，问卷已提交",
		"msg.deleted":         "已删除",
		"msg.reordered":       "题目顺序已更新",
		"msg.published":       "问卷已发布",

		"label.id":           "ID",
		"label.submitted_at": "提交时间",
		"label.ip_address":   "IP 地址",
		"label.row":          "行%d",
		"label.sheet":        "回复",
	},
}
