// Command bookden drives the book-catalog state layer from the shell:
// the catalog, favorites, books-read, collections, ratings, the used-book
// market, and a session-scoped messaging demo. It stands in for the UI
// event loop: every subcommand is one synchronous mutation or query.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/catalog"
	"github.com/tmakarios/bookden/internal/ids"
	"github.com/tmakarios/bookden/internal/kv"
	"github.com/tmakarios/bookden/internal/model"
	"github.com/tmakarios/bookden/internal/service"
	"github.com/tmakarios/bookden/internal/store"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// ---- state dir ----

func stateDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "bookden")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bookden")
}

// ---- app wiring ----

type app struct {
	log      *zap.Logger
	medium   kv.Medium
	books    *catalog.Catalog
	favs     *store.MarkStore
	read     *store.MarkStore
	colls    *store.CollectionStore
	ratings  service.RatingService
	market   service.MarketService
	messages service.MessagingService
	shelves  *service.ShelfService
}

func newApp(dir, userID string, verbose bool) (*app, error) {
	log := zap.NewNop()
	if verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	medium, err := kv.NewFile(dir)
	if err != nil {
		return nil, err
	}

	books := catalog.New(medium, log)
	favs := store.NewFavorites(medium, userID, log)
	read := store.NewBooksRead(medium, userID, log)
	colls := store.NewCollections(medium, userID, ids.NewClockCounter(nil), log)
	listings := store.NewListings(medium, ids.NewClockCounter(nil), log)
	ratingStore := store.NewRatings(medium, ids.NewClockCounter(nil), log)

	market := service.NewMarketService(listings, books)
	return &app{
		log:      log,
		medium:   medium,
		books:    books,
		favs:     favs,
		read:     read,
		colls:    colls,
		ratings:  service.NewRatingService(books, ratingStore, read),
		market:   market,
		messages: service.NewMessagingService(market, ids.NewCounter(1), nil, log),
		shelves:  service.NewShelfService(favs, read, colls),
	}, nil
}

// ---- helpers ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `bookden
Usage:
  bookden [-state dir] [-user id] [-verbose] <cmd> [args]

Commands:
  version
  books                                       catalog with blended ratings
  fav         -id <book>                      toggle favorite
  favs
  read        -id <book>                      toggle books-read
  reads
  rate        -id <book> -stars <1..5>
  rating      -id <book>
  coll-create -name <n> [-color c] [-desc d]
  colls
  shelves                                     standard + user shelves
  coll-add    -id <coll> -book <book>
  coll-rm     -id <coll> -book <book>
  coll-rename -id <coll> -name <n>
  coll-delete -id <coll>
  sell        -book <id> -price <p> [-currency EUR] [-cond "Very Good"] [-loc l]
  listings                                    open listings
  mine                                        own listings, any status
  unlist      -id <listing>                   remove while still available
  status      -id <listing> -to <sold|picked>
  contact     -listing <id> -text <msg>       session-scoped conversation
  demo                                        scripted sale conversation
  reset                                       clear all persisted slots
`)
	os.Exit(2)
}

// bookRow is the list view the UI would render.
type bookRow struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Rating   float64 `json:"rating"`
	Favorite bool    `json:"favorite"`
	Read     bool    `json:"read"`
}

// ---- main ----

func main() {
	state := flag.String("state", stateDir(), "state directory")
	user := flag.String("user", "local-user", "acting user id")
	verbose := flag.Bool("verbose", false, "log store activity")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	if cmd == "version" {
		fmt.Printf("bookden %s (%s)\n", version, buildDate)
		return
	}

	a, err := newApp(*state, *user, *verbose)
	if err != nil {
		fail(err)
	}
	defer func() { _ = a.log.Sync() }()

	switch cmd {

	case "books":
		rows := make([]bookRow, 0, a.books.Len())
		for _, b := range a.books.List() {
			r, err := a.ratings.DisplayRating(b.ID)
			if err != nil {
				r = b.Rating
			}
			rows = append(rows, bookRow{
				ID: b.ID, Title: b.Title, Author: b.Author, Rating: r,
				Favorite: a.favs.Contains(b.ID),
				Read:     a.ratings.HasRead(*user, b.ID),
			})
		}
		printJSON(rows)

	case "fav", "read":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int64("id", 0, "book id")
		_ = fs.Parse(flag.Args()[1:])
		if _, err := a.books.ByID(*id); err != nil {
			fail(err)
		}
		target := a.favs
		if cmd == "read" {
			target = a.read
		}
		marked, err := target.Toggle(*id)
		if err != nil {
			// in-memory state advanced; report the durability gap and move on
			fmt.Fprintln(os.Stderr, "warning: not persisted:", err)
		}
		fmt.Println(marked)

	case "favs":
		printJSON(a.favs.List())

	case "reads":
		printJSON(a.read.List())

	case "rate":
		fs := flag.NewFlagSet("rate", flag.ExitOnError)
		id := fs.Int64("id", 0, "book id")
		stars := fs.Int("stars", 0, "rating 1..5")
		_ = fs.Parse(flag.Args()[1:])
		rec, err := a.ratings.SetRating(*user, *id, *stars)
		if err != nil {
			fail(err)
		}
		printJSON(rec)

	case "rating":
		fs := flag.NewFlagSet("rating", flag.ExitOnError)
		id := fs.Int64("id", 0, "book id")
		_ = fs.Parse(flag.Args()[1:])
		r, err := a.ratings.DisplayRating(*id)
		if err != nil {
			fail(err)
		}
		own, _ := a.ratings.UserRating(*user, *id)
		printJSON(map[string]any{"bookId": *id, "rating": r, "own": own})

	case "coll-create":
		fs := flag.NewFlagSet("coll-create", flag.ExitOnError)
		name := fs.String("name", "", "collection name")
		color := fs.String("color", "#4a90d9", "color tag")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(flag.Args()[1:])
		col, err := a.colls.Create(*name, *color, *desc)
		if err != nil {
			fail(err)
		}
		printJSON(col)

	case "colls":
		printJSON(a.colls.List())

	case "shelves":
		type row struct {
			Kind  string  `json:"kind"`
			ID    any     `json:"id"`
			Name  string  `json:"name"`
			Count int     `json:"count"`
			Books []int64 `json:"books"`
		}
		var rows []row
		for _, sh := range a.shelves.Shelves() {
			switch v := sh.(type) {
			case service.StandardShelf:
				rows = append(rows, row{Kind: "standard", ID: v.Slug, Name: v.Name, Count: v.Count(), Books: v.BookIDs})
			case service.UserShelf:
				c := v.Collection
				rows = append(rows, row{Kind: "user", ID: c.ID, Name: c.Name, Count: c.Count, Books: c.BookIDs})
			}
		}
		printJSON(rows)

	case "coll-add", "coll-rm":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int64("id", 0, "collection id")
		book := fs.Int64("book", 0, "book id")
		_ = fs.Parse(flag.Args()[1:])
		if _, err := a.books.ByID(*book); err != nil && cmd == "coll-add" {
			fail(err)
		}
		op := a.colls.AddBook
		if cmd == "coll-rm" {
			op = a.colls.RemoveBook
		}
		col, err := op(*id, *book)
		if err != nil {
			fail(err)
		}
		printJSON(col)

	case "coll-rename":
		fs := flag.NewFlagSet("coll-rename", flag.ExitOnError)
		id := fs.Int64("id", 0, "collection id")
		name := fs.String("name", "", "new name")
		_ = fs.Parse(flag.Args()[1:])
		col, err := a.colls.Rename(*id, *name)
		if err != nil {
			fail(err)
		}
		printJSON(col)

	case "coll-delete":
		fs := flag.NewFlagSet("coll-delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "collection id")
		_ = fs.Parse(flag.Args()[1:])
		if err := a.colls.Delete(*id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "sell":
		fs := flag.NewFlagSet("sell", flag.ExitOnError)
		book := fs.Int64("book", 0, "book id")
		price := fs.Float64("price", 0, "asking price")
		currency := fs.String("currency", "EUR", "currency code")
		cond := fs.String("cond", string(model.ConditionGood), "condition grade")
		loc := fs.String("loc", "", "pickup location")
		_ = fs.Parse(flag.Args()[1:])
		lst, err := a.market.CreateListing(service.CreateListingRequest{
			SellerID:  *user,
			BookID:    *book,
			Price:     *price,
			Currency:  *currency,
			Condition: model.Condition(*cond),
			Location:  *loc,
		})
		if err != nil {
			fail(err)
		}
		printJSON(lst)

	case "listings":
		printJSON(a.market.ListOpen())

	case "mine":
		printJSON(a.market.ListBySeller(*user))

	case "unlist":
		fs := flag.NewFlagSet("unlist", flag.ExitOnError)
		id := fs.Int64("id", 0, "listing id")
		_ = fs.Parse(flag.Args()[1:])
		if err := a.market.RemoveListing(*id, *user); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "status":
		fs := flag.NewFlagSet("status", flag.ExitOnError)
		id := fs.Int64("id", 0, "listing id")
		to := fs.String("to", "", "sold | picked")
		_ = fs.Parse(flag.Args()[1:])
		lst, err := a.market.Transition(*id, model.ListingStatus(*to))
		if err != nil {
			fail(err)
		}
		printJSON(lst)

	case "contact":
		// the conversation ledger is mock infrastructure: it lives for
		// one process and restarts empty, like the original demo backend
		fs := flag.NewFlagSet("contact", flag.ExitOnError)
		listing := fs.Int64("listing", 0, "listing id")
		text := fs.String("text", "", "first message")
		_ = fs.Parse(flag.Args()[1:])
		conv, err := a.messages.StartConversation(*user, *listing, *text)
		if err != nil {
			fail(err)
		}
		printJSON(conv)

	case "demo":
		if err := runDemo(a, *user); err != nil {
			fail(err)
		}

	case "reset":
		keys, err := a.medium.Keys()
		if err != nil {
			fail(fmt.Errorf("reset failed: %w", err))
		}
		var failed error
		for _, k := range keys {
			if err := a.medium.Delete(k); err != nil {
				failed = errors.Join(failed, fmt.Errorf("%s: %w", k, err))
			}
		}
		if failed != nil {
			fail(fmt.Errorf("reset incomplete: %w", failed))
		}
		fmt.Println("reset ok:", len(keys), "slots cleared")

	default:
		usage()
	}
}

// runDemo walks a full sale through the messaging ledger: contact,
// reply, mark sold, mark picked (which prompts for a rating).
func runDemo(a *app, seller string) error {
	books := a.books.List()
	if len(books) == 0 {
		return errors.New("empty catalog")
	}
	lst, err := a.market.CreateListing(service.CreateListingRequest{
		SellerID:  seller,
		BookID:    books[0].ID,
		Price:     9.5,
		Currency:  "EUR",
		Condition: model.ConditionVeryGood,
		Location:  "demo town",
	})
	if err != nil {
		return err
	}

	const buyer = "demo-buyer"
	conv, err := a.messages.StartConversation(buyer, lst.ID, "Hi! Is this still available?")
	if err != nil {
		return err
	}
	if _, err := a.messages.AddMessage(conv.ID, seller, "It is. Pickup works any evening."); err != nil {
		return err
	}
	if _, err := a.messages.MarkMessagesSeen(conv.ID, seller); err != nil {
		return err
	}
	if _, err := a.messages.UpdateBookStatus(conv.ID, model.StatusSold, seller); err != nil {
		return err
	}
	final, err := a.messages.UpdateBookStatus(conv.ID, model.StatusPicked, buyer)
	if err != nil {
		return err
	}
	printJSON(final)
	return nil
}
