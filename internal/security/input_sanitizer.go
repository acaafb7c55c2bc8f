// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizer は利用者が入力した文字列からHTMLを除去し、
// プレーンテキストとして扱えるかを判定する。
// 入力値は管理画面にも表示されるため、保存前にマークアップを拒否する。
package security

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizer はプレーンテキスト入力のサニタイズ機能のインターフェースを定義する。
type InputSanitizer interface {
	// Sanitize はすべてのタグを除去したプレーンテキストを返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
	// IsPlainText は入力がタグや制御文字を含まないプレーンテキストであるかを返す。
	IsPlainText(raw string) bool
}

// inputSanitizer はInputSanitizerの実装。
// bluemondayのポリシーはスレッドセーフなため共有して使用する。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerの新しいインスタンスを生成する。
// 許可タグを持たないbluemondayのStrictPolicyを使用する。
func NewInputSanitizer() InputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はタグを除去し、エスケープを戻したテキストを返す。
func (s *inputSanitizer) Sanitize(raw string) string {
	return html.UnescapeString(s.policy.Sanitize(raw))
}

// IsPlainText はサニタイズで内容が変わらず、制御文字を含まない場合にtrueを返す。
func (s *inputSanitizer) IsPlainText(raw string) bool {
	if strings.IndexFunc(raw, unicode.IsControl) >= 0 {
		return false
	}
	return s.Sanitize(raw) == raw
}
