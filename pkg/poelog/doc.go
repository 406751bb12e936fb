// Package poelog turns a Path of Exile 2 client log (Client.txt) into a
// stream of categorized events.
//
// Physical log lines are grouped into logical entries (a timestamped line
// plus its continuation lines), deduplicated per watch session, and
// classified into one category such as Trade, Death, Level Up or Dialogue.
// Some categories carry extracted fields: the slain player, the character's
// class and level, or the chat sender and channel.
//
// # Watching a log
//
// A Session is the control surface. Start scans the existing file, hands
// every entry to the Sink in order, then follows the file for new entries
// until Stop:
//
//	sink := poelog.SinkFunc(func(ctx context.Context, ev poelog.Event) error {
//	    fmt.Printf("[%s] %s\n", ev.Category, ev.Message)
//	    return nil
//	})
//	s, err := poelog.NewSession(sink)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Start(ctx, ""); err != nil { // "" auto-detects Client.txt
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
// Watch offers the same pipeline as a pair of channels:
//
//	events, errs, err := poelog.Watch(ctx, path,
//	    poelog.WithIncludeCategories(poelog.CategoryTrade),
//	)
//
// # Parsing a file
//
//	for ev, err := range poelog.ParseFile(ctx, "Client.txt") {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(ev.Category, ev.Timestamp)
//	}
//
// # Rules
//
// Categories are assigned by an ordered rule table loaded from YAML. The
// default table is embedded; LoadClassifier reads a replacement so that
// tag lists can follow changes in the client's log format without a
// rebuild.
//
// # Disclaimer
//
// This is an unofficial tool and is not affiliated with Grinding Gear Games.
package poelog
