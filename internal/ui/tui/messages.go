package tui

import "github.com/precept-tool/precept/internal/domain"

type repoRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type hooksLoadedMsg struct {
	root string
	refs []domain.HookRef
	err  error
}

type runsLoadedMsg struct {
	root string
	refs []domain.RunRef
	err  error
}

type runnerDoneMsg struct {
	run domain.RunResult
	id  string
	err error
}
