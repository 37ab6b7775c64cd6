package tl

import "github.com/ImSingee/go-ex/pp"

var gray = pp.GetColor(38, 5, 240)

func symBlue(s string) string {
	return pp.BlueString(s).GetForStdout()
}

func symRed(s string) string {
	return pp.RedString(s).GetForStdout()
}

func symGreen(s string) string {
	return pp.GreenString(s).GetForStdout()
}

func symGray(s string) string {
	return pp.ColorString(gray, s).GetForStdout()
}

func statusIcon(status taskStatus) string {
	switch status {
	case taskStatusRunning:
		return symBlue(">")
	case taskStatusSuccess:
		return symGreen("✓")
	case taskStatusFailed:
		return symRed("✗")
	case taskStatusSkipped:
		return symGray("-")
	default:
		return symGray("○")
	}
}
