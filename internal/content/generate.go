package content

import (
	"fmt"
	"strings"
)

// sectionSeparator 分隔朗读文本中的各部分。
const sectionSeparator = "\n\n"

// BeginnerExplanation 生成面向初学者的讲解。
// 目前只是占位实现：把原文包装成一段说明，尚未接入大模型。
func BeginnerExplanation(content string) string {
	return fmt.Sprintf("[Generated beginner-friendly explanation for: %s]", content)
}

// StepByStepGuide 生成分步指南，同样是占位实现。
func StepByStepGuide(content string) string {
	return fmt.Sprintf("[Generated step-by-step guide for: %s]", content)
}

// Assemble 拼接标题和两个生成段落，得到交给语音合成的完整文本。
// 不做任何校验，空段落原样保留。
func Assemble(title, explanation, guide string) string {
	return strings.Join([]string{title, explanation, guide}, sectionSeparator)
}
