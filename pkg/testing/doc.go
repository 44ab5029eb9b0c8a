// Package testing drives frame node trees deterministically in tests.
//
// A Tester owns a pipeline context on a task.ManualExecutor, so frames and
// background image work only run when the test pumps them:
//
//	func TestColumn(t *testing.T) {
//	    tester := acetest.NewTester(t)
//	    tester.MustMount(`
//	tag: Column
//	children:
//	  - {tag: Text, id: title, text: hello}
//	`)
//	    if err := tester.PumpAndSettle(); err != nil {
//	        t.Fatal(err)
//	    }
//	    title := tester.Find(acetest.ByID("title")).First()
//	    if title.GeometryNode().FrameSize().Width == 0 {
//	        t.Error("title was not measured")
//	    }
//	}
//
// # Snapshot Testing
//
// CaptureSnapshot records the node tree geometry and the painted display
// list. MatchesFile compares it with a golden JSON file; run the tests
// with ACE_UPDATE_SNAPSHOTS=1 to rewrite the golden files.
package testing
