package stubapi

// reply is the response envelope: status, optional message and any
// action-specific keys at the top level.
type reply map[string]any

func ok(message string) reply {
	r := reply{"status": "success"}
	if message != "" {
		r["message"] = message
	}
	return r
}

func fail(message string) reply {
	return reply{"status": "error", "message": message}
}

func (r reply) with(key string, v any) reply {
	r[key] = v
	return r
}

var (
	replyUnauthorized = fail("Unauthorized")
	replyServerError  = fail("Server error")
)
