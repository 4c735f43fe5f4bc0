/*
Package mcdata is a demand-driven resolution engine for Minecraft datapack data.

It loads the built-in game data once as an immutable global layer and every
opened root (a world, a datapack or a functions folder) as an overlay scope.
Tags are resolved lazily, memoized per scope, and invalidated transitively
when a file changes, so hot reloads only recompute what changed.

# Concept

Each tag kind (blocks, entities, fluids, functions, items) is a layered
resolution graph. A tag in a root sees the definitions of every datapack of
that root plus the global definition. References to other tags are followed
on demand; reference cycles are reported instead of looping forever.

# Key Features

  - Lazy Resolution: nothing is computed until it is asked for.
  - Exact Invalidation: changing a tag clears only the tags that read it.
  - Scope Isolation: roots never see each other's definitions.
  - Diagnostics: invalid JSON, looping tags, unknown members and missing
    dependencies are reported per file and cleared when fixed.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/aretw0/mcdata"
		"github.com/aretw0/mcdata/pkg/datapack"
		"github.com/aretw0/mcdata/pkg/id"
		"github.com/aretw0/mcdata/pkg/vanilla"
	)

	func main() {
		global, err := vanilla.Load(os.DirFS("./generated"), "1.16", nil)
		if err != nil {
			log.Fatal(err)
		}
		w := mcdata.New(global)

		root, err := w.AddRoot(context.Background(), os.DirFS("./world"), "./world")
		if err != nil {
			log.Fatal(err)
		}

		logs, _, err := w.Tag(datapack.BlockTags, id.New("logs"), root.ID)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(logs.Results)

		for _, e := range w.Diagnostics() {
			fmt.Println(e.File, e.Summary())
		}
	}
*/
package mcdata
