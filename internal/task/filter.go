package task

import (
	"net/url"
	"strings"

	"github.com/hitoshi/taskman/internal/model"
)

// ParseFilter はリクエストのクエリパラメータからTaskFilterを構築する。
// 認識するキーはteam・owners・tags・project・statusで、未指定のキーは制約を課さない。
// tagsはカンマ区切りリストとして受け取り、「いずれか一致」で照合される。
// 入出力のみの純粋関数であり、I/Oは行わない。
func ParseFilter(values url.Values) model.TaskFilter {
	f := model.TaskFilter{
		Team:    values.Get("team"),
		Owner:   values.Get("owners"),
		Project: values.Get("project"),
		Status:  values.Get("status"),
	}

	if raw := values.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	return f
}
