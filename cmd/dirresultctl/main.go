/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command dirresultctl pretty-prints the textual RESULT form a back-end
// writes for str2result to parse.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sabouaram/dirsrv/dirresult"
)

func run(in io.Reader) error {
	buf, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	r, perr := dirresult.Parse(string(buf))

	fieldColor := color.New(color.FgCyan, color.Bold)
	errColor := color.New(color.FgRed, color.Bold)
	okColor := color.New(color.FgGreen, color.Bold)

	fieldColor.Print("code:    ")
	fmt.Println(r.Code)
	fieldColor.Print("matched: ")
	fmt.Println(r.Matched)
	fieldColor.Print("info:    ")
	fmt.Println(r.Info)

	if perr != nil {
		errColor.Println("parse: " + perr.Error())
		return perr
	}
	okColor.Println("parse: ok")
	return nil
}

func main() {
	cmd := &cobra.Command{
		Use:   "dirresultctl",
		Short: "Pretty-print a textual RESULT block read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(os.Stdin)
		},
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
