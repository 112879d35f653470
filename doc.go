// Package recokit 是一个邻里社区推荐工具包（Recommendation Kit）。
//
// 设计要点：
// - Engine-first: 相似度推荐引擎（协同过滤 / 基于内容 / 混合）为核心，Fit 后全读并发安全
// - Pipeline 串联: 推荐链路通过 Node 组装（Recall → Filter → ReRank → PostProcess）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
package recokit

import "github.com/rukunhub/recokit/pipeline"

// 轻量 facade：便于用户直接 import "recokit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
