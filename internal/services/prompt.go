package services

import "strings"

// PromptFragment is caller-supplied text spliced verbatim into the system
// prompt. It is NOT sanitized: anything the client sends ends up in the
// model's instructions.
type PromptFragment string

const quizContextLabel = "【現在のクイズ情報】"

const promptIntro = "あなたは「Quick Quiz AI」の学習アシスタントです。中学3年生が高校入試に向けて勉強するのを手伝っています。"

const defaultModePrompt = `【AIの話し方】タメ口で友達みたいに話してください。
【説明の深さ】用語の意味と重要ポイントをバランスよく説明してください。
【つながりマップ】説明の最後に必ず以下の形式でつながりマップを出してください：
🗺️ **つながりマップ**
・[関連キーワード1]：[一言説明]
・[関連キーワード2]：[一言説明]
・[関連キーワード3]：[一言説明]`

// BuildSystemPrompt layers the persona, the mode block (or the default
// tone and connection-map instructions) and the optional quiz section.
func BuildSystemPrompt(mode, quizContext PromptFragment) string {
	var b strings.Builder

	b.WriteString(promptIntro)
	b.WriteString("\n\n")

	if mode != "" {
		b.WriteString(string(mode))
	} else {
		b.WriteString(defaultModePrompt)
	}
	b.WriteString("\n\n")

	if quizContext != "" {
		b.WriteString(quizContextLabel)
		b.WriteString("\n")
		b.WriteString(string(quizContext))
	}

	return b.String()
}
