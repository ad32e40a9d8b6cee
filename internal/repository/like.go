package repository

import "strings"

// likeEscaper 转义 LIKE 通配符。转义字符使用 '!'，MySQL 与 SQLite 都能识别。
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 返回 "包含 s" 的 LIKE 模式，配合 likeClause 使用。
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// likeClause 生成带 ESCAPE 的 LIKE 条件。
func likeClause(column string) string {
	return column + " LIKE ? ESCAPE '!'"
}
