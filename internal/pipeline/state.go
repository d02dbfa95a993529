package pipeline

import (
	"sync"

	"github.com/iabetor/docpost/internal/logger"
)

// State 表示一次运行当前所处的阶段。
type State int

const (
	// StateIdle — 空闲，没有进行中的运行。
	StateIdle State = iota
	// StateFetching — 正在抓取页面（或订阅源）。
	StateFetching
	// StateGenerating — 正在生成讲解和步骤。
	StateGenerating
	// StateSynthesizing — 正在级联合成音频。
	StateSynthesizing
	// StatePublishing — 正在写入文章和运行记录。
	StatePublishing
)

var stateNames = [...]string{
	"Idle",
	"Fetching",
	"Generating",
	"Synthesizing",
	"Publishing",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// StateMachine 管理线程安全的阶段转换。
type StateMachine struct {
	mu       sync.RWMutex
	current  State
	onChange func(from, to State)
}

// NewStateMachine 创建一个初始状态为 Idle 的状态机。
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
	}
}

// SetOnChange 注册状态变化时的回调函数。
func (sm *StateMachine) SetOnChange(fn func(from, to State)) {
	sm.mu.Lock()
	sm.onChange = fn
	sm.mu.Unlock()
}

// Current 返回当前状态。
func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// Transition 尝试切换状态。只有合法的转换才会生效：
//
//	Idle         → Fetching
//	Fetching     → Generating
//	Generating   → Synthesizing
//	Synthesizing → Publishing
//	Publishing   → Idle
//
// 任何状态都可以转换到 Idle（出错时中止本次运行）。
func (sm *StateMachine) Transition(to State) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !validTransition(sm.current, to) {
		logger.Warnf("[state] 非法转换 %s → %s", sm.current, to)
		return false
	}

	from := sm.current
	sm.current = to
	logger.Debugf("[state] %s → %s", from, to)

	if sm.onChange != nil {
		sm.onChange(from, to)
	}
	return true
}

// ForceIdle 无条件重置状态为 Idle。
func (sm *StateMachine) ForceIdle() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	from := sm.current
	sm.current = StateIdle
	if from != StateIdle {
		logger.Debugf("[state] 强制重置 %s → Idle", from)
		if sm.onChange != nil {
			sm.onChange(from, StateIdle)
		}
	}
}

// validTransition 检查状态转换是否合法。
func validTransition(from, to State) bool {
	if to == StateIdle {
		return true
	}
	switch from {
	case StateIdle:
		return to == StateFetching
	case StateFetching:
		return to == StateGenerating
	case StateGenerating:
		return to == StateSynthesizing
	case StateSynthesizing:
		return to == StatePublishing
	}
	return false
}
