package detect

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
)

// Globals left behind by framework bootstrap scripts. Matched as
// prefixes against whatever the inline scripts define.
var frameworkGlobals = []string{
	"__NEXT_DATA__",
	"__NUXT__",
	"__INITIAL_STATE__",
	"webpackChunk",
	"webpackJsonp",
	"___gatsby",
}

const sniffBudget = 500 * time.Millisecond

// sniffScriptGlobals executes the page's inline scripts in a sandboxed
// JS interpreter and checks whether they install framework bootstrap
// globals. Scripts that touch real browser APIs simply throw and are
// ignored; a hydration payload assignment still runs far enough to leave
// its global behind.
func sniffScriptGlobals(doc *goquery.Document) bool {
	vm := goja.New()
	global := vm.GlobalObject()
	_ = vm.Set("window", global)
	_ = vm.Set("self", global)
	_ = vm.Set("globalThis", global)

	timer := time.AfterFunc(sniffBudget, func() {
		vm.Interrupt("sniff budget exhausted")
	})
	defer timer.Stop()

	found := false
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if _, external := s.Attr("src"); external {
			return true
		}
		src := s.Text()
		if strings.TrimSpace(src) == "" {
			return true
		}
		func() {
			defer func() { recover() }()
			_, _ = vm.RunString(src)
		}()
		for _, key := range global.Keys() {
			for _, want := range frameworkGlobals {
				if strings.HasPrefix(key, want) {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}
