package tl

type eventTaskStart struct {
	Id string
}

type eventTaskSuccess struct {
	Id string
}

type eventTaskFail struct {
	Id  string
	Err error
}

type eventTaskSkip struct {
	Id     string
	Reason string
}

type eventTaskHide struct {
	Id string
}

type eventTaskProgress struct {
	Id    string
	Done  int
	Total int
}

type eventTaskAddSubList struct {
	Id   string
	List tlModel
}
