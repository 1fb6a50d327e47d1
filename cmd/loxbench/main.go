package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"treelox/internal"
)

const fibSource = `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(%d);
`

type stdPrinter struct{}

func (s stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Println(a...)
}

func (s stdPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(w, format, a...)
}

func (s stdPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return fmt.Fprintln(w, a...)
}

func main() {
	n := flag.Int("n", 25, "fibonacci argument")
	flag.Parse()

	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)

	lox := internal.NewLox(nil, stdPrinter{}, nil)

	start := time.Now()
	if err := lox.Run(fmt.Sprintf(fibSource, *n)); err != nil {
		log.WithError(err).Error("benchmark failed")
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"n":       *n,
		"elapsed": time.Since(start).String(),
	}).Info("fib done")
}
