// Package recognition captures screen regions and turns them into text by
// running external commands.
//
// The Grabber and Recognizer interfaces hide the capture tool and the text
// recognizer; ExecGrabber and ExecRecognizer drive them as subprocesses.
// Engine ties the two together, warms the recognizer up on its own
// goroutine, and reports every attempt as a Reading whose Outcome separates
// "not ready", capture failure, recognizer failure, unparseable output, and
// "nothing detected". The monitor never sees a panic or a bare error from
// this package.
package recognition
