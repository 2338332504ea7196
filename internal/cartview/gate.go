package cartview

import "strings"

// 结算按钮文案与样式
const (
	CheckoutLabelProceed = "Перейти к оформлению"
	CheckoutLabelBlocked = "Недопустимый заказ"
	CheckoutDisabledCls  = "btn--disabled"
)

// Recompute 根据全部行重新计算结算门禁
func Recompute(lines []CartLine) GateState {
	gate := GateState{Empty: len(lines) == 0}
	for _, line := range lines {
		if line.HasError {
			gate.Blocked = true
			break
		}
	}
	return gate
}

// CheckoutAction 结算入口。原始跳转地址只在创建时记录一次，禁用时摘除、启用时恢复
type CheckoutAction struct {
	originalHref string
	enabled      bool
	label        string
}

// CheckoutActionView 结算入口的渲染结果
type CheckoutActionView struct {
	Label        string   `json:"label"`
	Href         string   `json:"href,omitempty"`
	DataHref     string   `json:"data_href"`
	Enabled      bool     `json:"enabled"`
	AriaDisabled bool     `json:"aria_disabled"`
	Classes      []string `json:"classes"`
}

// NewCheckoutAction 记录原始跳转地址，初始为禁用
func NewCheckoutAction(href string) *CheckoutAction {
	return &CheckoutAction{originalHref: strings.TrimSpace(href), label: CheckoutLabelBlocked}
}

// Apply 按门禁状态切换入口
func (a *CheckoutAction) Apply(gate GateState) {
	a.enabled = !gate.Disabled()
	if a.enabled {
		a.label = CheckoutLabelProceed
		return
	}
	a.label = CheckoutLabelBlocked
}

// Enabled 入口是否可用
func (a *CheckoutAction) Enabled() bool {
	return a.enabled
}

// Activate 点击结算：仅在可用时返回跳转地址，禁用时无任何导航效果
func (a *CheckoutAction) Activate() (string, bool) {
	if !a.enabled || a.originalHref == "" {
		return "", false
	}
	return a.originalHref, true
}

// View 渲染结算入口
func (a *CheckoutAction) View() CheckoutActionView {
	view := CheckoutActionView{
		Label:    a.label,
		DataHref: a.originalHref,
		Enabled:  a.enabled,
		Classes:  []string{"btn", "btn--primary"},
	}
	if a.enabled {
		view.Href = a.originalHref
		return view
	}
	view.AriaDisabled = true
	view.Classes = append(view.Classes, CheckoutDisabledCls)
	return view
}
