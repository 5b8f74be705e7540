package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rmax-ai/budgetlord/pkg/client"
	"github.com/rmax-ai/budgetlord/pkg/mcp"
)

var (
	Version   = "v1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func usage() {
	fmt.Println(`Usage: budgetlord <command> [args]

Commands:
  categories                    list categories
  goals                         list goals
  rollup <root-id> [bfs|dfs]    spending total for a category subtree
  cycles                        circular goal dependency groups
  tx add <category-id> <cents> [note]   record a transaction (needs BUDGETLORD_TOKEN)
  mcp                           serve the Model Context Protocol on stdio

Environment:
  BUDGETLORD_URL    daemon endpoint (default http://127.0.0.1:8091)
  BUDGETLORD_TOKEN  bearer token for write commands`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	endpoint := os.Getenv("BUDGETLORD_URL")
	c := client.NewClient(endpoint)
	if token := os.Getenv("BUDGETLORD_TOKEN"); token != "" {
		c.SetToken(token)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "categories":
		cats, err := c.ListCategories(ctx)
		if err != nil {
			fatal(err)
		}
		for _, cat := range cats {
			fmt.Printf("%d\t%s\n", cat.ID, cat.Name)
		}

	case "goals":
		goals, err := c.ListGoals(ctx)
		if err != nil {
			fatal(err)
		}
		for _, g := range goals {
			fmt.Printf("%d\t%s\ttarget=%d\n", g.ID, g.Name, g.TargetCents)
		}

	case "rollup":
		if len(os.Args) < 3 {
			usage()
			os.Exit(1)
		}
		root, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid root id %q", os.Args[2]))
		}
		mode := ""
		if len(os.Args) > 3 {
			mode = os.Args[3]
		}
		res, err := c.Rollup(ctx, root, mode)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("root=%d categories=%d total_cents=%d\n", res.RootID, len(res.CategoryIDs), res.TotalCents)

	case "cycles":
		report, err := c.Cycles(ctx)
		if err != nil {
			fatal(err)
		}
		if len(report.Groups) == 0 {
			fmt.Println("no circular goal dependencies")
			return
		}
		for i, group := range report.Groups {
			fmt.Printf("group %d: %v\n", i, group)
		}

	case "tx":
		if len(os.Args) < 5 || os.Args[2] != "add" {
			usage()
			os.Exit(1)
		}
		category, err := strconv.ParseInt(os.Args[3], 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid category id %q", os.Args[3]))
		}
		cents, err := strconv.ParseInt(os.Args[4], 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid amount %q", os.Args[4]))
		}
		note := ""
		if len(os.Args) > 5 {
			note = os.Args[5]
		}
		id, err := c.AddTransaction(ctx, category, cents, note)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("transaction %d recorded\n", id)

	case "mcp":
		srv := mcp.NewServer(endpoint)
		if err := srv.Serve(); err != nil {
			fatal(err)
		}

	case "version":
		fmt.Printf("budgetlord %s (%s, %s)\n", Version, Commit, BuildTime)

	default:
		usage()
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintln(os.Stderr, "Is budgetlord-d running?")
	os.Exit(1)
}
