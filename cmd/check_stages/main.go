// check_stages 并发解析关卡文件并输出诊断信息
//
// 用法：
//
//	go run ./cmd/check_stages                       # 检查 data/stages/*.yaml
//	go run ./cmd/check_stages data/stages/stage-2.yaml
//	go run ./cmd/check_stages --strict              # 有诊断信息时返回非零
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/embedded"
	"github.com/gonewx/fouhou/pkg/systems"
	"golang.org/x/sync/errgroup"
)

var (
	root    = flag.String("root", ".", "项目根目录（包含 data/）")
	strict  = flag.Bool("strict", false, "存在诊断信息时返回非零退出码")
	workers = flag.Int("workers", 4, "并发解析数")
	verbose = flag.Bool("verbose", false, "显示详细日志")
)

// stageReport 单个关卡文件的检查结果
type stageReport struct {
	Path        string
	Name        string
	Groups      int
	Entries     int
	Dialogues   int
	Diagnostics []string
	Err         error
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	embedded.Init(os.DirFS(*root))

	paths := flag.Args()
	if len(paths) == 0 {
		var err error
		paths, err = embedded.Glob("data/stages/*.yaml")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list stages: %v\n", err)
			os.Exit(1)
		}
	}
	if len(paths) == 0 {
		fmt.Println("no stage files found")
		return
	}

	reports, err := checkStages(context.Background(), paths, *workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check aborted: %v\n", err)
		os.Exit(1)
	}

	failed, warned := printReports(os.Stdout, reports)
	if failed > 0 || (*strict && warned > 0) {
		os.Exit(1)
	}
}

// checkStages 并发检查所有关卡文件，结果按路径排序
// 单个文件的加载错误记录在报告中，不会中止其他文件
func checkStages(ctx context.Context, paths []string, workers int) ([]stageReport, error) {
	reports := make([]stageReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = checkStage(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(a, b int) bool { return reports[a].Path < reports[b].Path })
	return reports, nil
}

func checkStage(path string) stageReport {
	report := stageReport{Path: path}

	cfg, err := config.LoadStageConfig(path)
	if err != nil {
		report.Err = err
		return report
	}

	plan, diags := systems.BuildStagePlan(cfg)
	report.Name = plan.Name
	report.Groups = len(plan.Groups)
	report.Dialogues = len(cfg.Dialogues)
	for _, g := range plan.Groups {
		report.Entries += len(g.Entries)
	}

	report.Diagnostics = append(append([]string(nil), cfg.Diagnostics...), diags...)
	return report
}

func printReports(w io.Writer, reports []stageReport) (failed, warned int) {
	for _, r := range reports {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "FAIL  %s\n      %v\n", r.Path, r.Err)
			continue
		}

		status := "OK  "
		if len(r.Diagnostics) > 0 {
			warned++
			status = "WARN"
		}
		fmt.Fprintf(w, "%s  %s (%s): %d group(s), %d pattern entries, %d dialogue(s)\n",
			status, r.Path, r.Name, r.Groups, r.Entries, r.Dialogues)
		for _, d := range r.Diagnostics {
			fmt.Fprintf(w, "      - %s\n", d)
		}
	}
	fmt.Fprintf(w, "\n%d file(s), %d failed, %d with warnings\n", len(reports), failed, warned)
	return failed, warned
}
