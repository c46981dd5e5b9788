package models

var seedProjects = []Project{
	{ID: 1, Name: "产品开发方法论分析", NameEn: "product-design-methodology-generator", Category: "元产品", Status: StatusDone, Repo: "https://github.com/flyzhenghao/product-design-methodology-generator"},
	{ID: 2, Name: "竞品分析", NameEn: "competitor-analysis", Category: "元产品", Status: StatusInitial},
	{ID: 3, Name: "产品开发计划一览表", NameEn: "product-dev-overview", Category: "元产品", Status: StatusDone, Repo: "https://github.com/flyzhenghao/AI-Project-List", EndDate: "2025-12-05"},
	{ID: 4, Name: "Next Gen AI Agent", NameEn: "next-gen-ai-agent", Category: "工作", Status: StatusInitial},
	{ID: 5, Name: "Business Website", NameEn: "business-website", Category: "工作", Status: StatusInitial},
	{ID: 6, Name: "Street Hip-hop Video", NameEn: "street-hiphop-video", Category: "工作", Subcategory: "AI Marketing", Status: StatusInitial},
	{ID: 7, Name: "AI Impact On Real Estate", NameEn: "ai-real-estate", Category: "工作", Status: StatusIng},
	{ID: 8, Name: "个人复盘，人生日记", NameEn: "life-review-diary", Category: "生活", Status: StatusInitial},
	{ID: 9, Name: "时间记录", NameEn: "time-tracking", Category: "生活", Status: StatusInitial},
	{ID: 10, Name: "你一生的旅程", NameEn: "life-journey", Category: "生活", Status: StatusIng, Repo: "https://github.com/flyzhenghao/life-journey"},
	{ID: 11, Name: "奇特的一生", NameEn: "extraordinary-life", Category: "生活", Status: StatusInitial},
	{ID: 12, Name: "2025 Xmas Camping", NameEn: "2025-xmas-camping", Category: "旅行", Status: StatusDone, Repo: "https://github.com/flyzhenghao/2025-Xmas-Camping"},
	{ID: 13, Name: "2025 Xmas Trip", NameEn: "2025-xmas-trip", Category: "旅行", Status: StatusDone, Repo: "https://github.com/flyzhenghao/2025-Xmas-Trip"},
	{ID: 14, Name: "Yang 学习作业", NameEn: "rangitoto-review-Y9", Category: "学习", Subcategory: "Yang Study", Status: StatusDone},
	{ID: 15, Name: "书籍核心内容提取，动态演示", NameEn: "vant-emergence", Category: "读书", Status: StatusDone, Repo: "https://github.com/flyzhenghao/vant-emergence"},
	{ID: 16, Name: "学以致用：决策系统", NameEn: "decision-making-system", Category: "读书", Status: StatusDone, Repo: "https://github.com/flyzhenghao/decision-making-system"},
}

// SeedProjects returns a fresh copy of the built-in initial dataset.
func SeedProjects() []Project {
	out := make([]Project, len(seedProjects))
	copy(out, seedProjects)
	return out
}
