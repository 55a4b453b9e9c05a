package notifytemplate

import (
	"case-flow-backend/models"
)

type Template struct {
	Subject string
	Body    string
}

// Built-in templates per event and language. Placeholders are literal
// {{name}} tokens; see Render.
var defaultTemplates = map[models.NotifyEventCode]map[models.LangCode]Template{
	models.EventStatusChanged: {
		models.LangEN: {
			Subject: "Case {{ref_no}}: {{status}}",
			Body: "<p>Case <b>{{ref_no}}</b> for client <b>{{client}}</b> moved from " +
				"{{prev_status}} to <b>{{status}}</b>.</p>" +
				"<p>Product: {{product}}</p>" +
				"<p>Changed by: {{actor}}</p>" +
				"<p>{{comment}}</p>",
		},
		models.LangFR: {
			Subject: "Dossier {{ref_no}} : {{status}}",
			Body: "<p>Le dossier <b>{{ref_no}}</b> du client <b>{{client}}</b> est passé de " +
				"{{prev_status}} à <b>{{status}}</b>.</p>" +
				"<p>Produit : {{product}}</p>" +
				"<p>Modifié par : {{actor}}</p>" +
				"<p>{{comment}}</p>",
		},
		models.LangZH: {
			Subject: "案件 {{ref_no}}:{{status}}",
			Body: "<p>客户 <b>{{client}}</b> 的案件 <b>{{ref_no}}</b> 状态已从 " +
				"{{prev_status}} 变更为 <b>{{status}}</b>。</p>" +
				"<p>产品:{{product}}</p>" +
				"<p>操作人:{{actor}}</p>" +
				"<p>{{comment}}</p>",
		},
	},
	models.EventCaseAmended: {
		models.LangEN: {
			Subject: "Case {{ref_no}} updated",
			Body: "<p>Case <b>{{ref_no}}</b> for client <b>{{client}}</b> was amended by " +
				"{{actor}} while in status <b>{{status}}</b>. Please review the updated data.</p>",
		},
		models.LangFR: {
			Subject: "Dossier {{ref_no}} mis à jour",
			Body: "<p>Le dossier <b>{{ref_no}}</b> du client <b>{{client}}</b> a été modifié par " +
				"{{actor}} au statut <b>{{status}}</b>. Veuillez vérifier les données mises à jour.</p>",
		},
		models.LangZH: {
			Subject: "案件 {{ref_no}} 已更新",
			Body: "<p>{{actor}} 修改了客户 <b>{{client}}</b> 的案件 <b>{{ref_no}}</b>" +
				"(当前状态:<b>{{status}}</b>)。请查看更新后的数据。</p>",
		},
	},
}

var statusLabels = map[models.LangCode]map[models.CaseStatus]string{
	models.LangEN: {
		models.CaseStatusDraft:                "Draft",
		models.CaseStatusSubmitted:            "Submitted",
		models.CaseStatusEdited:               "Edited",
		models.CaseStatusUnderReview:          "Under Review",
		models.CaseStatusClarificationNeeded:  "Clarification Needed",
		models.CaseStatusFeasibilityConfirmed: "Feasibility Confirmed",
		models.CaseStatusDesignResult:         "Design Result",
		models.CaseStatusInCosting:            "In Costing",
		models.CaseStatusCostingComplete:      "Costing Complete",
		models.CaseStatusSalesFollowup:        "Sales Follow-up",
		models.CaseStatusGMApprovalPending:    "Pending GM Approval",
		models.CaseStatusGMApproved:           "GM Approved",
		models.CaseStatusGMRejected:           "GM Rejected",
		models.CaseStatusCancelled:            "Cancelled",
		models.CaseStatusClosed:               "Closed",
	},
	models.LangFR: {
		models.CaseStatusDraft:                "Brouillon",
		models.CaseStatusSubmitted:            "Soumis",
		models.CaseStatusEdited:               "Modifié",
		models.CaseStatusUnderReview:          "En cours d'examen",
		models.CaseStatusClarificationNeeded:  "Clarification requise",
		models.CaseStatusFeasibilityConfirmed: "Faisabilité confirmée",
		models.CaseStatusDesignResult:         "Résultat de conception",
		models.CaseStatusInCosting:            "En chiffrage",
		models.CaseStatusCostingComplete:      "Chiffrage terminé",
		models.CaseStatusSalesFollowup:        "Suivi commercial",
		models.CaseStatusGMApprovalPending:    "En attente d'approbation DG",
		models.CaseStatusGMApproved:           "Approuvé par la DG",
		models.CaseStatusGMRejected:           "Rejeté par la DG",
		models.CaseStatusCancelled:            "Annulé",
		models.CaseStatusClosed:               "Clôturé",
	},
	models.LangZH: {
		models.CaseStatusDraft:                "草稿",
		models.CaseStatusSubmitted:            "已提交",
		models.CaseStatusEdited:               "已修改",
		models.CaseStatusUnderReview:          "审核中",
		models.CaseStatusClarificationNeeded:  "需要澄清",
		models.CaseStatusFeasibilityConfirmed: "可行性已确认",
		models.CaseStatusDesignResult:         "设计结果",
		models.CaseStatusInCosting:            "核价中",
		models.CaseStatusCostingComplete:      "核价完成",
		models.CaseStatusSalesFollowup:        "销售跟进",
		models.CaseStatusGMApprovalPending:    "待总经理审批",
		models.CaseStatusGMApproved:           "总经理已批准",
		models.CaseStatusGMRejected:           "总经理已驳回",
		models.CaseStatusCancelled:            "已取消",
		models.CaseStatusClosed:               "已结案",
	},
}
