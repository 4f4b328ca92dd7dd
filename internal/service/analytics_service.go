package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"coffee-pos/internal/cache"
	"coffee-pos/internal/model"

	"github.com/shopspring/decimal"
)

const (
	topProductsLimit = 5
	slowMoversLimit  = 10
	pctPlaces        = 2
)

type AnalyticsSummary struct {
	OrdersCount     int             `json:"orders_count"`
	TotalRevenueOMR decimal.Decimal `json:"total_revenue_omr"`
	AOVOMR          decimal.Decimal `json:"aov_omr"`
}

type DaySales struct {
	Day        string          `json:"day"`
	Orders     int             `json:"orders"`
	RevenueOMR decimal.Decimal `json:"revenue_omr"`
}

type DailyStats struct {
	List          []DaySales      `json:"list"`
	AvgRevenueOMR decimal.Decimal `json:"avg_revenue_omr"`
	BestDay       *DaySales       `json:"best_day"`
	WorstDay      *DaySales       `json:"worst_day"`
}

type PaymentSplit struct {
	CashOMR decimal.Decimal `json:"cash_omr"`
	VisaOMR decimal.Decimal `json:"visa_omr"`
	CashPct decimal.Decimal `json:"cash_pct"`
	VisaPct decimal.Decimal `json:"visa_pct"`
}

type ProductSales struct {
	ProductID  uint            `json:"product_id"`
	Name       string          `json:"name"`
	Category   model.Category  `json:"category"`
	Units      int             `json:"units"`
	RevenueOMR decimal.Decimal `json:"revenue_omr"`
}

type TopProducts struct {
	TopByUnits              *ProductSales   `json:"top_by_units"`
	TopByRevenue            *ProductSales   `json:"top_by_revenue"`
	Top5                    []ProductSales  `json:"top5"`
	SlowMovers              []ProductSales  `json:"slow_movers"`
	AllTimeBestSeller       *ProductSales   `json:"all_time_best_seller"`
	TopProductDailyAvgUnits decimal.Decimal `json:"top_product_daily_avg_units"`
}

type CategorySales struct {
	Category   model.Category  `json:"category"`
	Units      int             `json:"units"`
	RevenueOMR decimal.Decimal `json:"revenue_omr"`
}

type CategoryPerformance struct {
	Rows          []CategorySales `json:"rows"`
	BestByRevenue *model.Category `json:"best_by_revenue"`
	BestByUnits   *model.Category `json:"best_by_units"`
}

type HourOrders struct {
	Hour   string `json:"hour"`
	Orders int    `json:"orders"`
}

type WeekdaySales struct {
	Day        string          `json:"day"`
	DowIndex   int             `json:"dow_index"`
	Orders     int             `json:"orders"`
	RevenueOMR decimal.Decimal `json:"revenue_omr"`
}

type Peak struct {
	BusiestHours []HourOrders   `json:"busiest_hours"`
	PeakHour     *string        `json:"peak_hour"`
	PeakDay      *string        `json:"peak_day"`
	SalesByDay   []WeekdaySales `json:"sales_by_day"`
}

type MonthCompare struct {
	PrevStart      time.Time       `json:"prev_start"`
	PrevEnd        time.Time       `json:"prev_end"`
	PrevRevenueOMR decimal.Decimal `json:"prev_revenue_omr"`
}

type Analytics struct {
	Range               Window              `json:"range"`
	Summary             AnalyticsSummary    `json:"summary"`
	Daily               DailyStats          `json:"daily"`
	Payments            PaymentSplit        `json:"payments"`
	TopProducts         TopProducts         `json:"top_products"`
	CategoryPerformance CategoryPerformance `json:"category_performance"`
	Peak                Peak                `json:"peak"`
	AvgItemsPerOrder    decimal.Decimal     `json:"avg_items_per_order"`
	MonthCompare        *MonthCompare       `json:"month_compare"`
}

func (s *reportService) Analytics(ctx context.Context, w Window) (*Analytics, error) {
	key := fmt.Sprintf(cache.KeyAnalytics, w.Mode, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	var out Analytics
	if s.cached(ctx, w, key, &out) {
		return &out, nil
	}

	orders, err := s.orderRepo.FindInRange(w.Start, w.End)
	if err != nil {
		return nil, err
	}
	catalog, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	out = buildAnalytics(w, orders, catalog)

	if w.Mode == ModeMonth {
		prevStart := w.Start.AddDate(0, -1, 0)
		prev, err := s.orderRepo.SumRevenue(prevStart, w.Start)
		if err != nil {
			return nil, err
		}
		out.MonthCompare = &MonthCompare{
			PrevStart:      prevStart,
			PrevEnd:        w.Start,
			PrevRevenueOMR: prev.Round(moneyPlaces),
		}
	}

	s.store(ctx, w, key, &out)
	return &out, nil
}

// buildAnalytics aggregates orders (with items and products loaded) that
// fall in w. Calendar days, hours and weekdays are taken in UTC.
func buildAnalytics(w Window, orders []model.Order, catalog []model.Product) Analytics {
	a := Analytics{Range: w}

	revenue := decimal.Zero
	cash := decimal.Zero
	visa := decimal.Zero
	units := 0

	days := map[string]*DaySales{}
	hours := map[string]int{}
	weekdays := map[int]*WeekdaySales{}
	products := map[uint]*ProductSales{}
	categories := map[model.Category]*CategorySales{}
	dayProductUnits := map[string]map[uint]int{}

	for _, o := range orders {
		revenue = revenue.Add(o.TotalAmountOMR)
		switch o.PaymentMethod {
		case model.PaymentCash:
			cash = cash.Add(o.TotalAmountOMR)
		case model.PaymentVisa:
			visa = visa.Add(o.TotalAmountOMR)
		}

		at := o.CreatedAt.UTC()
		dayKey := at.Format("2006-01-02")
		d, ok := days[dayKey]
		if !ok {
			d = &DaySales{Day: dayKey, RevenueOMR: decimal.Zero}
			days[dayKey] = d
		}
		d.Orders++
		d.RevenueOMR = d.RevenueOMR.Add(o.TotalAmountOMR)

		hours[at.Format("15")+":00"]++

		dow := int(at.Weekday())
		wd, ok := weekdays[dow]
		if !ok {
			wd = &WeekdaySales{Day: at.Weekday().String()[:3], DowIndex: dow, RevenueOMR: decimal.Zero}
			weekdays[dow] = wd
		}
		wd.Orders++
		wd.RevenueOMR = wd.RevenueOMR.Add(o.TotalAmountOMR)

		for _, it := range o.Items {
			units += it.Quantity
			line := it.LineTotal()

			ps, ok := products[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, RevenueOMR: decimal.Zero}
				if it.Product != nil {
					ps.Name = it.Product.Name
					ps.Category = it.Product.Category
				}
				products[it.ProductID] = ps
			}
			ps.Units += it.Quantity
			ps.RevenueOMR = ps.RevenueOMR.Add(line)

			cs, ok := categories[ps.Category]
			if !ok {
				cs = &CategorySales{Category: ps.Category, RevenueOMR: decimal.Zero}
				categories[ps.Category] = cs
			}
			cs.Units += it.Quantity
			cs.RevenueOMR = cs.RevenueOMR.Add(line)

			if dayProductUnits[dayKey] == nil {
				dayProductUnits[dayKey] = map[uint]int{}
			}
			dayProductUnits[dayKey][it.ProductID] += it.Quantity
		}
	}

	count := len(orders)
	a.Summary = AnalyticsSummary{
		OrdersCount:     count,
		TotalRevenueOMR: revenue.Round(moneyPlaces),
		AOVOMR:          decimal.Zero,
	}
	a.AvgItemsPerOrder = decimal.Zero
	if count > 0 {
		n := decimal.NewFromInt(int64(count))
		a.Summary.AOVOMR = revenue.Div(n).Round(moneyPlaces)
		a.AvgItemsPerOrder = decimal.NewFromInt(int64(units)).Div(n).Round(pctPlaces)
	}

	a.Payments = PaymentSplit{
		CashOMR: cash.Round(moneyPlaces),
		VisaOMR: visa.Round(moneyPlaces),
		CashPct: percent(cash, revenue),
		VisaPct: percent(visa, revenue),
	}

	a.Daily = dailyStats(days)
	a.TopProducts = topProducts(products, catalog, dayProductUnits)
	a.CategoryPerformance = categoryPerformance(categories)
	a.Peak = peak(hours, weekdays)
	return a
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(pctPlaces)
}

func dailyStats(days map[string]*DaySales) DailyStats {
	st := DailyStats{List: make([]DaySales, 0, len(days)), AvgRevenueOMR: decimal.Zero}
	for _, d := range days {
		d.RevenueOMR = d.RevenueOMR.Round(moneyPlaces)
		st.List = append(st.List, *d)
	}
	sort.Slice(st.List, func(i, j int) bool { return st.List[i].Day < st.List[j].Day })
	if len(st.List) == 0 {
		return st
	}

	total := decimal.Zero
	best, worst := st.List[0], st.List[0]
	for _, d := range st.List {
		total = total.Add(d.RevenueOMR)
		if d.RevenueOMR.GreaterThan(best.RevenueOMR) {
			best = d
		}
		if d.RevenueOMR.LessThan(worst.RevenueOMR) {
			worst = d
		}
	}
	st.AvgRevenueOMR = total.Div(decimal.NewFromInt(int64(len(st.List)))).Round(moneyPlaces)
	st.BestDay = &best
	st.WorstDay = &worst
	return st
}

func topProducts(sold map[uint]*ProductSales, catalog []model.Product, dayProductUnits map[string]map[uint]int) TopProducts {
	tp := TopProducts{Top5: []ProductSales{}, SlowMovers: []ProductSales{}, TopProductDailyAvgUnits: decimal.Zero}

	rows := make([]ProductSales, 0, len(sold))
	for _, ps := range sold {
		ps.RevenueOMR = ps.RevenueOMR.Round(moneyPlaces)
		rows = append(rows, *ps)
	}

	if len(rows) > 0 {
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Units != rows[j].Units {
				return rows[i].Units > rows[j].Units
			}
			if !rows[i].RevenueOMR.Equal(rows[j].RevenueOMR) {
				return rows[i].RevenueOMR.GreaterThan(rows[j].RevenueOMR)
			}
			return rows[i].ProductID < rows[j].ProductID
		})
		byUnits := rows[0]
		tp.TopByUnits = &byUnits
		allTime := rows[0]
		tp.AllTimeBestSeller = &allTime

		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].RevenueOMR.Equal(rows[j].RevenueOMR) {
				return rows[i].RevenueOMR.GreaterThan(rows[j].RevenueOMR)
			}
			if rows[i].Units != rows[j].Units {
				return rows[i].Units > rows[j].Units
			}
			return rows[i].ProductID < rows[j].ProductID
		})
		byRevenue := rows[0]
		tp.TopByRevenue = &byRevenue
		n := min(topProductsLimit, len(rows))
		tp.Top5 = append(tp.Top5, rows[:n]...)
	}

	// Slow movers come from the whole catalog so unsold items show up too.
	slow := make([]ProductSales, 0, len(catalog))
	for _, p := range catalog {
		row := ProductSales{ProductID: p.ID, Name: p.Name, Category: p.Category, RevenueOMR: decimal.Zero}
		if ps, ok := sold[p.ID]; ok {
			row.Units = ps.Units
			row.RevenueOMR = ps.RevenueOMR
		}
		slow = append(slow, row)
	}
	sort.Slice(slow, func(i, j int) bool {
		if slow[i].Units != slow[j].Units {
			return slow[i].Units < slow[j].Units
		}
		if !slow[i].RevenueOMR.Equal(slow[j].RevenueOMR) {
			return slow[i].RevenueOMR.LessThan(slow[j].RevenueOMR)
		}
		return slow[i].Name < slow[j].Name
	})
	tp.SlowMovers = append(tp.SlowMovers, slow[:min(slowMoversLimit, len(slow))]...)

	if len(dayProductUnits) > 0 {
		sum := 0
		for _, perProduct := range dayProductUnits {
			top := 0
			for _, u := range perProduct {
				top = max(top, u)
			}
			sum += top
		}
		tp.TopProductDailyAvgUnits = decimal.NewFromInt(int64(sum)).
			Div(decimal.NewFromInt(int64(len(dayProductUnits)))).
			Round(pctPlaces)
	}
	return tp
}

func categoryPerformance(cats map[model.Category]*CategorySales) CategoryPerformance {
	cp := CategoryPerformance{Rows: make([]CategorySales, 0, len(cats))}
	for _, c := range cats {
		c.RevenueOMR = c.RevenueOMR.Round(moneyPlaces)
		cp.Rows = append(cp.Rows, *c)
	}
	sort.Slice(cp.Rows, func(i, j int) bool {
		if !cp.Rows[i].RevenueOMR.Equal(cp.Rows[j].RevenueOMR) {
			return cp.Rows[i].RevenueOMR.GreaterThan(cp.Rows[j].RevenueOMR)
		}
		return cp.Rows[i].Category < cp.Rows[j].Category
	})
	if len(cp.Rows) == 0 {
		return cp
	}

	byRevenue := cp.Rows[0].Category
	cp.BestByRevenue = &byRevenue
	best := cp.Rows[0]
	for _, r := range cp.Rows[1:] {
		if r.Units > best.Units {
			best = r
		}
	}
	byUnits := best.Category
	cp.BestByUnits = &byUnits
	return cp
}

func peak(hours map[string]int, weekdays map[int]*WeekdaySales) Peak {
	p := Peak{
		BusiestHours: make([]HourOrders, 0, len(hours)),
		SalesByDay:   make([]WeekdaySales, 0, len(weekdays)),
	}
	for h, n := range hours {
		p.BusiestHours = append(p.BusiestHours, HourOrders{Hour: h, Orders: n})
	}
	sort.Slice(p.BusiestHours, func(i, j int) bool {
		if p.BusiestHours[i].Orders != p.BusiestHours[j].Orders {
			return p.BusiestHours[i].Orders > p.BusiestHours[j].Orders
		}
		return p.BusiestHours[i].Hour < p.BusiestHours[j].Hour
	})
	if len(p.BusiestHours) > 0 {
		h := p.BusiestHours[0].Hour
		p.PeakHour = &h
	}

	for _, wd := range weekdays {
		wd.RevenueOMR = wd.RevenueOMR.Round(moneyPlaces)
		p.SalesByDay = append(p.SalesByDay, *wd)
	}
	sort.Slice(p.SalesByDay, func(i, j int) bool { return p.SalesByDay[i].DowIndex < p.SalesByDay[j].DowIndex })

	var best *WeekdaySales
	for i := range p.SalesByDay {
		if best == nil || p.SalesByDay[i].RevenueOMR.GreaterThan(best.RevenueOMR) {
			best = &p.SalesByDay[i]
		}
	}
	if best != nil {
		d := best.Day
		p.PeakDay = &d
	}
	return p
}
